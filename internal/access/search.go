package access

import (
	"strings"
)

// Search result limits, matching the dropdown sizes in the wizard panel.
const (
	MaxUserResults  = 5
	MaxGroupResults = 5
)

// Directory is the cached user/group listing fetched once per wizard session.
type Directory struct {
	Users  []Principal
	Groups []Principal
}

// SearchResult holds matching principals split by type.
type SearchResult struct {
	Users  []Principal
	Groups []Principal
}

// Search performs a case-insensitive substring match over display names and
// emails, excluding principals already selected. An empty query matches
// everything up to the result limits.
func (d Directory) Search(query string, sel *Selection) SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	var res SearchResult
	for _, u := range d.Users {
		if len(res.Users) >= MaxUserResults {
			break
		}
		if sel != nil && sel.IsSelected(GrantRef{PrincipalID: u.ID, PrincipalType: PrincipalUser}) {
			continue
		}
		if matches(u, q) {
			res.Users = append(res.Users, u)
		}
	}
	for _, g := range d.Groups {
		if len(res.Groups) >= MaxGroupResults {
			break
		}
		if sel != nil && sel.IsSelected(GrantRef{PrincipalID: g.ID, PrincipalType: PrincipalGroup}) {
			continue
		}
		if matches(g, q) {
			res.Groups = append(res.Groups, g)
		}
	}
	return res
}

func matches(p Principal, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.DisplayName), q) ||
		strings.Contains(strings.ToLower(p.Email), q)
}

// Resolve maps a grant ref back to a directory principal. Unknown refs get a
// placeholder carrying just the ID, so edit mode never drops a principal the
// directory no longer lists.
func (d Directory) Resolve(ref GrantRef) Principal {
	pool := d.Users
	if ref.PrincipalType == PrincipalGroup {
		pool = d.Groups
	}
	for _, p := range pool {
		if p.ID == ref.PrincipalID {
			return p
		}
	}
	return Principal{ID: ref.PrincipalID, Type: ref.PrincipalType, DisplayName: ref.PrincipalID}
}
