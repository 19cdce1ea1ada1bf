package ui

import (
	"fmt"
	"strings"

	"agentforge/internal/wizard"
)

func (m *Model) View() string {
	if m.confirming {
		return m.styles.Content.Render(
			m.styles.Warning.Render("Discard this tool?") + "\n\n" +
				m.styles.Body.Render("All entered data will be lost.") + "\n\n" +
				m.styles.Muted.Render("y discard · n keep editing"))
	}

	switch m.machine.Phase() {
	case wizard.PhaseTypeSelection:
		return m.styles.Content.Render(m.typeList.View())
	case wizard.PhaseStep:
		return m.stepView()
	case wizard.PhaseSubmitting:
		return m.submittingView()
	case wizard.PhaseSubmitted:
		return m.styles.Content.Render(
			m.styles.Success.Render("Done!") + "\n\n" +
				m.styles.Body.Render(m.doneMsg) + "\n\n" +
				m.styles.Muted.Render("press any key to exit"))
	case wizard.PhaseCancelled:
		return m.styles.Muted.Render("Cancelled.")
	}
	return ""
}

// stepHeader renders "Step 2 of 5" plus the step breadcrumb.
func (m *Model) stepHeader() string {
	st := m.machine.State()
	title := fmt.Sprintf(" %s · Step %d of %d · %s ",
		st.Meta.DisplayName, st.StepIndex, st.MaxSteps(), st.CurrentStepName())

	crumbs := make([]string, 0, st.MaxSteps())
	for i, step := range st.Meta.Steps {
		label := string(step)
		switch {
		case i+1 == st.StepIndex:
			label = m.styles.StepCurrent.Render("● " + label)
		case i+1 < st.StepIndex:
			label = m.styles.StepDone.Render("✓ " + label)
		default:
			label = m.styles.StepPending.Render("○ " + label)
		}
		crumbs = append(crumbs, label)
	}
	return m.styles.Header.Render(title) + "\n" + strings.Join(crumbs, m.styles.Muted.Render("  ")) + "\n"
}

func (m *Model) stepView() string {
	st := m.machine.State()
	var body string

	switch st.CurrentPanel() {
	case wizard.PanelBasics:
		body = m.basicsView()
	case wizard.PanelConfig:
		body = m.configView()
	case wizard.PanelSources:
		body = m.sources.view(st.Sources)
	case wizard.PanelAccess:
		body = m.access.view(st.Access)
	case wizard.PanelReview:
		body = m.reviewView()
	default:
		body = m.styles.Muted.Render("Nothing to configure here.")
	}

	footer := m.footerView()
	return m.stepHeader() + "\n" + m.styles.Content.Render(body) + "\n" + footer
}

func (m *Model) basicsView() string {
	var b strings.Builder
	for i, label := range m.basics.labels {
		b.WriteString(m.styles.Label.Render(label) + "\n")
		b.WriteString(m.basics.inputs[i].View() + "\n\n")
	}
	return b.String()
}

func (m *Model) configView() string {
	if len(m.config.fields) == 0 {
		return m.styles.Muted.Render("This tool type needs no configuration.")
	}
	var b strings.Builder
	for i, field := range m.config.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		b.WriteString(m.styles.Label.Render(label) + "\n")
		b.WriteString(m.config.inputs[i].View() + "\n\n")
	}
	return b.String()
}

func (m *Model) reviewView() string {
	body := m.reviewBody
	if body == "" {
		body = m.styles.Muted.Render("Nothing to review.")
	}
	return body + "\n" + m.styles.Bold.Render("Press enter to save this tool.")
}

func (m *Model) footerView() string {
	if m.errMsg != "" {
		return m.styles.Footer.Render(m.styles.Error.Render(m.errMsg))
	}
	st := m.machine.State()
	hints := []string{"esc back", "ctrl+c cancel"}
	if !st.AtFinalStep() {
		hints = append([]string{"ctrl+n next"}, hints...)
	}
	return m.styles.Footer.Render(strings.Join(hints, " · "))
}

func (m *Model) submittingView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Saving your tool") + "\n\n")
	b.WriteString(m.spin.View() + " ")
	if m.lastProg.Detail != "" {
		b.WriteString(m.styles.Body.Render(m.lastProg.Detail))
	} else {
		b.WriteString(m.styles.Body.Render("Starting..."))
	}
	b.WriteString("\n\n" + m.prog.View() + "\n")
	return m.styles.Content.Render(b.String())
}
