package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"agentforge/internal/access"
	"agentforge/internal/wizard"
)

func (m *Model) updateBasics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.basics.cycle(false)
	case "shift+tab":
		return m, m.basics.cycle(true)
	case "enter":
		if m.basics.focus < len(m.basics.inputs)-1 {
			return m, m.basics.cycle(false)
		}
		return m.advance()
	}
	return m, m.basics.update(msg)
}

func (m *Model) updateConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.config.cycle(false)
	case "shift+tab":
		return m, m.config.cycle(true)
	case "enter":
		if m.config.focus < len(m.config.inputs)-1 {
			return m, m.config.cycle(false)
		}
		return m.advance()
	}
	return m, m.config.update(msg)
}

func (m *Model) updateSources(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.machine.State()
	done, cmd := m.sources.handleKey(msg, st.Sources)
	if done {
		return m.advance()
	}
	return m, cmd
}

func (m *Model) updateAccess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.machine.State()
	done, cmd := m.access.handleKey(msg, st.Access)
	if done {
		return m.advance()
	}
	return m, cmd
}

func (m *Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "ctrl+s":
		return m.beginSubmit()
	}
	return m, nil
}

// renderReview builds the markdown summary of the session and renders it
// through glamour. Secrets never appear; only the fact they were set.
func (m *Model) renderReview() {
	st := m.machine.State()
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", st.Name())
	fmt.Fprintf(&b, "**Type:** %s\n\n", st.Meta.DisplayName)
	if st.Description() != "" {
		fmt.Fprintf(&b, "%s\n\n", st.Description())
	}

	if cfg := st.Config(); len(cfg) > 0 {
		b.WriteString("## Configuration\n\n")
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			label, secret := k, false
			for _, f := range st.Meta.Fields {
				if f.Key == k {
					label, secret = f.Label, f.Secret
					break
				}
			}
			if secret {
				fmt.Fprintf(&b, "- %s: *(set)*\n", label)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", label, cfg[k])
			}
		}
		b.WriteString("\n")
	}

	if st.Meta.HasSources {
		b.WriteString("## Sources\n\n")
		if st.Sources.TotalCount() == 0 {
			b.WriteString("None added.\n\n")
		} else {
			fmt.Fprintf(&b, "- Files: %d\n", st.Sources.Files.Count())
			fmt.Fprintf(&b, "- URLs: %d\n", st.Sources.URLs.Count())
			fmt.Fprintf(&b, "- Text entries: %d\n", st.Sources.Texts.Count())
			fmt.Fprintf(&b, "- Tables: %d\n\n", st.Sources.Tables.Count())
		}
	}

	b.WriteString("## Access\n\n")
	b.WriteString(accessSummary(st))

	style := "light"
	if m.styles.Theme.IsDark {
		style = "dark"
	}
	out, err := glamour.Render(b.String(), style)
	if err != nil {
		// Raw markdown is still readable.
		m.reviewBody = b.String()
		return
	}
	m.reviewBody = out
}

func accessSummary(st *wizard.State) string {
	sel := st.Access
	switch sel.AccessType() {
	case access.OwnerOnly:
		return "Only you.\n"
	case access.Authenticated:
		return "Any signed-in user.\n"
	case access.Public:
		return "Everyone, including anonymous users.\n"
	}

	var b strings.Builder
	users := sel.SelectedUsers()
	groups := sel.SelectedGroups()
	fmt.Fprintf(&b, "Specific users and groups (%d users, %d groups):\n\n", len(users), len(groups))
	for _, p := range users {
		fmt.Fprintf(&b, "- %s%s\n", p.DisplayName, grantSuffix(sel, p))
	}
	for _, p := range groups {
		fmt.Fprintf(&b, "- %s (group)%s\n", p.DisplayName, grantSuffix(sel, p))
	}
	return b.String()
}
