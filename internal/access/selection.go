// Package access manages who may see and use a tool: the access type, the
// selected principals (users and groups) and the per-permission grants over
// them. The grant relations may only reference selected principals; the
// cascade on deselection is enforced by recomputing grants after every
// mutation rather than trusting call sites to clean up.
package access

import (
	"sort"
	"strings"

	"agentforge/internal/logging"
)

// AccessType says who may view the tool. The values are wire-level.
type AccessType string

const (
	OwnerOnly     AccessType = "owner_only"
	Authenticated AccessType = "authenticated"
	SpecificUsers AccessType = "specific_users"
	Public        AccessType = "public"
)

// PrincipalType distinguishes user and group principals.
type PrincipalType string

const (
	PrincipalUser  PrincipalType = "user"
	PrincipalGroup PrincipalType = "group"
)

// Principal is a user or group referenced in access-control selections.
type Principal struct {
	ID          string
	Type        PrincipalType
	DisplayName string
	Email       string // empty for groups
}

// Permission is one of the three grantable relations on a tool.
type Permission string

const (
	PermEdit    Permission = "edit"
	PermDelete  Permission = "delete"
	PermExecute Permission = "execute"
)

// Permissions lists the grantable relations in display order.
var Permissions = []Permission{PermEdit, PermDelete, PermExecute}

// GrantRef identifies a principal inside a grant relation.
type GrantRef struct {
	PrincipalID   string
	PrincipalType PrincipalType
}

// Grants maps each permission to the set of principals holding it.
type Grants map[Permission]map[GrantRef]struct{}

// NewGrants returns empty relations for all three permissions.
func NewGrants() Grants {
	g := make(Grants, len(Permissions))
	for _, p := range Permissions {
		g[p] = make(map[GrantRef]struct{})
	}
	return g
}

// RecomputeGrants filters dangling references: any grant whose principal is
// not in selected is dropped. Pure; the input is not mutated.
func RecomputeGrants(selected map[GrantRef]struct{}, grants Grants) Grants {
	out := NewGrants()
	for perm, refs := range grants {
		for ref := range refs {
			if _, ok := selected[ref]; ok {
				out[perm][ref] = struct{}{}
			}
		}
	}
	return out
}

// Selection is the access-control state of one wizard session.
type Selection struct {
	accessType AccessType
	principals map[GrantRef]Principal
	grants     Grants
}

// NewSelection starts at owner_only with nothing selected.
func NewSelection() *Selection {
	return &Selection{
		accessType: OwnerOnly,
		principals: make(map[GrantRef]Principal),
		grants:     NewGrants(),
	}
}

// Reset returns the selection to its initial state.
func (s *Selection) Reset() {
	s.accessType = OwnerOnly
	s.principals = make(map[GrantRef]Principal)
	s.grants = NewGrants()
}

// AccessType returns the current access type.
func (s *Selection) AccessType() AccessType { return s.accessType }

// SetAccessType switches the access type. Principals and grants are kept even
// when leaving specific_users so that toggling back and forth while browsing
// the panel loses nothing; Save only emits them for specific_users.
func (s *Selection) SetAccessType(t AccessType) {
	s.accessType = t
	logging.Access("access type set to %s", t)
}

// IsSelected reports whether the principal is currently selected.
func (s *Selection) IsSelected(ref GrantRef) bool {
	_, ok := s.principals[ref]
	return ok
}

// ToggleSelection adds the principal if absent, removes it if present.
// Removal cascades: grants referencing the principal are dropped.
func (s *Selection) ToggleSelection(p Principal) {
	ref := GrantRef{PrincipalID: p.ID, PrincipalType: p.Type}
	if _, ok := s.principals[ref]; ok {
		delete(s.principals, ref)
		s.grants = RecomputeGrants(s.selectedRefs(), s.grants)
		logging.Access("deselected %s %s", p.Type, p.ID)
		return
	}
	s.principals[ref] = p
	logging.Access("selected %s %s", p.Type, p.ID)
}

// AddGrant gives the principal the permission. Idempotent. Principals that
// are not selected cannot be granted anything.
func (s *Selection) AddGrant(perm Permission, ref GrantRef) bool {
	if _, ok := s.principals[ref]; !ok {
		return false
	}
	if _, ok := s.grants[perm]; !ok {
		return false
	}
	s.grants[perm][ref] = struct{}{}
	return true
}

// RemoveGrant revokes the permission. Idempotent.
func (s *Selection) RemoveGrant(perm Permission, principalID string, pt PrincipalType) {
	if refs, ok := s.grants[perm]; ok {
		delete(refs, GrantRef{PrincipalID: principalID, PrincipalType: pt})
	}
}

// HasGrant reports whether the principal holds the permission.
func (s *Selection) HasGrant(perm Permission, ref GrantRef) bool {
	refs, ok := s.grants[perm]
	if !ok {
		return false
	}
	_, ok = refs[ref]
	return ok
}

// SelectedUsers returns selected user principals sorted by display name.
func (s *Selection) SelectedUsers() []Principal {
	return s.selectedOfType(PrincipalUser)
}

// SelectedGroups returns selected group principals sorted by display name.
func (s *Selection) SelectedGroups() []Principal {
	return s.selectedOfType(PrincipalGroup)
}

func (s *Selection) selectedOfType(t PrincipalType) []Principal {
	var out []Principal
	for ref, p := range s.principals {
		if ref.PrincipalType == t {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

func (s *Selection) selectedRefs() map[GrantRef]struct{} {
	refs := make(map[GrantRef]struct{}, len(s.principals))
	for ref := range s.principals {
		refs[ref] = struct{}{}
	}
	return refs
}

// Payload is the saved form of a selection, shaped for the tool record
// request body. Group entries in the grant lists carry a "group:" prefix
// because the backend needs the type tag.
type Payload struct {
	AccessType      AccessType
	AllowedUserIDs  []string
	AllowedGroupIDs []string
	CanEditIDs      []string
	CanDeleteIDs    []string
	CanExecuteIDs   []string
}

// Save flattens the selection for submission. For any access type other than
// specific_users the principal and grant lists are empty.
func (s *Selection) Save() Payload {
	p := Payload{AccessType: s.accessType}
	if s.accessType != SpecificUsers {
		return p
	}

	for ref := range s.principals {
		switch ref.PrincipalType {
		case PrincipalUser:
			p.AllowedUserIDs = append(p.AllowedUserIDs, ref.PrincipalID)
		case PrincipalGroup:
			p.AllowedGroupIDs = append(p.AllowedGroupIDs, ref.PrincipalID)
		}
	}
	sort.Strings(p.AllowedUserIDs)
	sort.Strings(p.AllowedGroupIDs)

	p.CanEditIDs = s.grantIDs(PermEdit)
	p.CanDeleteIDs = s.grantIDs(PermDelete)
	p.CanExecuteIDs = s.grantIDs(PermExecute)
	return p
}

func (s *Selection) grantIDs(perm Permission) []string {
	var ids []string
	for ref := range s.grants[perm] {
		id := ref.PrincipalID
		if ref.PrincipalType == PrincipalGroup {
			id = "group:" + id
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load rebuilds a selection from an existing tool record, used by edit mode.
// Grant IDs carrying the "group:" prefix are mapped back to group refs.
// Principals referenced by grants but missing from the allowed lists are
// dropped by the same cascade that guards interactive mutation.
func Load(t AccessType, userIDs, groupIDs []string, grantIDs map[Permission][]string, resolve func(GrantRef) Principal) *Selection {
	s := NewSelection()
	s.accessType = t
	for _, id := range userIDs {
		ref := GrantRef{PrincipalID: id, PrincipalType: PrincipalUser}
		s.principals[ref] = resolve(ref)
	}
	for _, id := range groupIDs {
		ref := GrantRef{PrincipalID: id, PrincipalType: PrincipalGroup}
		s.principals[ref] = resolve(ref)
	}

	for perm, ids := range grantIDs {
		for _, id := range ids {
			ref := GrantRef{PrincipalID: id, PrincipalType: PrincipalUser}
			if rest, ok := strings.CutPrefix(id, "group:"); ok {
				ref = GrantRef{PrincipalID: rest, PrincipalType: PrincipalGroup}
			}
			if _, ok := s.grants[perm]; ok {
				s.grants[perm][ref] = struct{}{}
			}
		}
	}
	s.grants = RecomputeGrants(s.selectedRefs(), s.grants)
	return s
}
