package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"agentforge/internal/access"
)

// accessZone is the keyboard focus area inside the access panel.
type accessZone int

const (
	zoneType accessZone = iota
	zoneSearch
	zoneResults
	zoneSelected
)

var accessTypeOrder = []access.AccessType{
	access.OwnerOnly,
	access.Authenticated,
	access.SpecificUsers,
	access.Public,
}

var accessTypeLabels = map[access.AccessType]string{
	access.OwnerOnly:     "Only me",
	access.Authenticated: "Any signed-in user",
	access.SpecificUsers: "Specific users and groups",
	access.Public:        "Public (no sign-in required)",
}

// accessPanel is the who-can-use-this subpanel. The selection semantics live
// in the access package; this struct only tracks cursors and the search box.
type accessPanel struct {
	styles Styles
	dir    access.Directory

	zone       accessZone
	typeCursor int

	search    textinput.Model
	results   access.SearchResult
	resCursor int
	selCursor int
}

func newAccessPanel(styles Styles) accessPanel {
	search := newInput(styles, "Search users and groups", 40)
	return accessPanel{styles: styles, search: search}
}

func (p *accessPanel) setDirectory(dir access.Directory) {
	p.dir = dir
}

func (p *accessPanel) reset() {
	p.zone = zoneType
	p.typeCursor = 0
	p.resCursor = 0
	p.selCursor = 0
	p.search.SetValue("")
	p.search.Blur()
	p.results = access.SearchResult{}
}

// resultAt flattens the user/group result lists for cursor navigation.
func (p *accessPanel) resultAt(i int) (access.Principal, bool) {
	if i < len(p.results.Users) {
		return p.results.Users[i], true
	}
	i -= len(p.results.Users)
	if i < len(p.results.Groups) {
		return p.results.Groups[i], true
	}
	return access.Principal{}, false
}

func (p *accessPanel) resultCount() int {
	return len(p.results.Users) + len(p.results.Groups)
}

func selectedAt(sel *access.Selection, i int) (access.Principal, bool) {
	users := sel.SelectedUsers()
	if i < len(users) {
		return users[i], true
	}
	i -= len(users)
	groups := sel.SelectedGroups()
	if i < len(groups) {
		return groups[i], true
	}
	return access.Principal{}, false
}

func selectedCount(sel *access.Selection) int {
	return len(sel.SelectedUsers()) + len(sel.SelectedGroups())
}

// handleKey processes one key. Returns done=true when the user confirmed the
// panel and the wizard should advance.
func (p *accessPanel) handleKey(msg tea.KeyMsg, sel *access.Selection) (bool, tea.Cmd) {
	key := msg.String()

	// Tab cycles the zones; the search/results/selected zones only exist
	// for specific_users.
	if key == "tab" || key == "shift+tab" {
		p.cycleZone(sel, key == "shift+tab")
		if p.zone == zoneSearch {
			return false, p.search.Focus()
		}
		p.search.Blur()
		return false, nil
	}

	switch p.zone {
	case zoneType:
		return p.handleTypeKey(key, sel)
	case zoneSearch:
		return p.handleSearchKey(msg, sel)
	case zoneResults:
		return p.handleResultsKey(key, sel)
	case zoneSelected:
		return p.handleSelectedKey(key, sel)
	}
	return false, nil
}

func (p *accessPanel) cycleZone(sel *access.Selection, back bool) {
	zones := []accessZone{zoneType}
	if sel.AccessType() == access.SpecificUsers {
		zones = []accessZone{zoneType, zoneSearch, zoneResults, zoneSelected}
	}
	cur := 0
	for i, z := range zones {
		if z == p.zone {
			cur = i
			break
		}
	}
	if back {
		cur--
	} else {
		cur++
	}
	p.zone = zones[(cur+len(zones))%len(zones)]
}

func (p *accessPanel) handleTypeKey(key string, sel *access.Selection) (bool, tea.Cmd) {
	switch key {
	case "up", "k":
		if p.typeCursor > 0 {
			p.typeCursor--
		}
	case "down", "j":
		if p.typeCursor < len(accessTypeOrder)-1 {
			p.typeCursor++
		}
	case " ":
		sel.SetAccessType(accessTypeOrder[p.typeCursor])
		p.refreshResults(sel)
	case "enter":
		sel.SetAccessType(accessTypeOrder[p.typeCursor])
		if sel.AccessType() == access.SpecificUsers {
			// Move into the picker instead of leaving the panel.
			p.zone = zoneSearch
			p.refreshResults(sel)
			return false, p.search.Focus()
		}
		return true, nil
	}
	return false, nil
}

func (p *accessPanel) handleSearchKey(msg tea.KeyMsg, sel *access.Selection) (bool, tea.Cmd) {
	switch msg.String() {
	case "enter", "down":
		if p.resultCount() > 0 {
			p.zone = zoneResults
			p.resCursor = 0
			p.search.Blur()
		}
		return false, nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.refreshResults(sel)
	return false, cmd
}

func (p *accessPanel) handleResultsKey(key string, sel *access.Selection) (bool, tea.Cmd) {
	switch key {
	case "up", "k":
		if p.resCursor == 0 {
			p.zone = zoneSearch
			return false, p.search.Focus()
		}
		p.resCursor--
	case "down", "j":
		if p.resCursor < p.resultCount()-1 {
			p.resCursor++
		}
	case "enter", " ":
		if principal, ok := p.resultAt(p.resCursor); ok {
			sel.ToggleSelection(principal)
			p.refreshResults(sel)
			if p.resCursor >= p.resultCount() && p.resCursor > 0 {
				p.resCursor--
			}
		}
	}
	return false, nil
}

func (p *accessPanel) handleSelectedKey(key string, sel *access.Selection) (bool, tea.Cmd) {
	switch key {
	case "up", "k":
		if p.selCursor > 0 {
			p.selCursor--
		}
	case "down", "j":
		if p.selCursor < selectedCount(sel)-1 {
			p.selCursor++
		}
	case "enter", " ":
		if principal, ok := selectedAt(sel, p.selCursor); ok {
			sel.ToggleSelection(principal)
			if p.selCursor >= selectedCount(sel) && p.selCursor > 0 {
				p.selCursor--
			}
			p.refreshResults(sel)
		}
	case "e":
		p.toggleGrant(sel, access.PermEdit)
	case "d":
		p.toggleGrant(sel, access.PermDelete)
	case "x":
		p.toggleGrant(sel, access.PermExecute)
	}
	return false, nil
}

func (p *accessPanel) toggleGrant(sel *access.Selection, perm access.Permission) {
	principal, ok := selectedAt(sel, p.selCursor)
	if !ok {
		return
	}
	ref := access.GrantRef{PrincipalID: principal.ID, PrincipalType: principal.Type}
	if sel.HasGrant(perm, ref) {
		sel.RemoveGrant(perm, principal.ID, principal.Type)
	} else {
		sel.AddGrant(perm, ref)
	}
}

func (p *accessPanel) refreshResults(sel *access.Selection) {
	p.results = p.dir.Search(p.search.Value(), sel)
	if p.resCursor >= p.resultCount() {
		p.resCursor = 0
	}
}

func (p *accessPanel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return cmd
}

// grantSuffix renders the " [edit, execute]" tail for a selected principal.
func grantSuffix(sel *access.Selection, principal access.Principal) string {
	ref := access.GrantRef{PrincipalID: principal.ID, PrincipalType: principal.Type}
	var perms []string
	for _, perm := range access.Permissions {
		if sel.HasGrant(perm, ref) {
			perms = append(perms, string(perm))
		}
	}
	if len(perms) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(perms, ", "))
}

// view renders the panel for the current selection.
func (p *accessPanel) view(sel *access.Selection) string {
	s := p.styles
	var b strings.Builder

	b.WriteString(s.Label.Render("Who can use this tool?") + "\n\n")
	for i, t := range accessTypeOrder {
		marker := "( )"
		if sel.AccessType() == t {
			marker = "(•)"
		}
		line := fmt.Sprintf("%s %s", marker, accessTypeLabels[t])
		switch {
		case p.zone == zoneType && i == p.typeCursor:
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		default:
			b.WriteString("  " + line + "\n")
		}
	}

	if sel.AccessType() != access.SpecificUsers {
		return b.String()
	}

	b.WriteString("\n" + s.Label.Render("Search") + " " + p.search.View() + "\n\n")

	if p.resultCount() == 0 {
		b.WriteString(s.Muted.Render("  No matches.") + "\n")
	}
	for i := 0; i < p.resultCount(); i++ {
		principal, _ := p.resultAt(i)
		label := principal.DisplayName
		if principal.Type == access.PrincipalGroup {
			label += " (group)"
		} else if principal.Email != "" {
			label += "  " + principal.Email
		}
		if p.zone == zoneResults && i == p.resCursor {
			b.WriteString(s.Selected.Render("> "+label) + "\n")
		} else {
			b.WriteString("  " + label + "\n")
		}
	}

	b.WriteString("\n" + s.Label.Render("Selected") + "\n")
	if selectedCount(sel) == 0 {
		b.WriteString(s.Muted.Render("  Nobody yet.") + "\n")
	}
	for i := 0; i < selectedCount(sel); i++ {
		principal, _ := selectedAt(sel, i)
		label := principal.DisplayName
		if principal.Type == access.PrincipalGroup {
			label += " (group)"
		}
		label += grantSuffix(sel, principal)
		if p.zone == zoneSelected && i == p.selCursor {
			b.WriteString(s.Selected.Render("> "+label) + "\n")
		} else {
			b.WriteString("  " + label + "\n")
		}
	}

	b.WriteString("\n" + s.Muted.Render("space toggle · e/d/x grants · tab switch area · ctrl+n continue"))
	return b.String()
}
