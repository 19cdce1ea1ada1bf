package wizard

import (
	"fmt"
	"strings"

	"agentforge/internal/catalog"
	"agentforge/internal/logging"
)

// Phase is the machine's coarse state. Step(n) is PhaseStep plus the state's
// StepIndex.
type Phase string

const (
	PhaseTypeSelection Phase = "type_selection"
	PhaseStep          Phase = "step"
	PhaseSubmitting    Phase = "submitting"
	PhaseSubmitted     Phase = "submitted"
	PhaseCancelled     Phase = "cancelled"
)

// ValidationError blocks a transition and carries the inline message for the
// current panel. No network call is made for these.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrAtFinalStep is returned by Next on the last step, where only Submit is
// offered.
var ErrAtFinalStep = fmt.Errorf("already at final step")

// Machine drives the wizard's navigation. All state is owned here and handed
// out read-only to the view; resets on cancel, close and successful submit go
// through Reset so no session data survives into the next one.
type Machine struct {
	phase Phase
	state *State
}

// NewMachine starts at type selection with no session state.
func NewMachine() *Machine {
	return &Machine{phase: PhaseTypeSelection}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// State returns the current session state, nil outside a session.
func (m *Machine) State() *State { return m.state }

// SelectType begins a session: TypeSelection -> Step(1).
func (m *Machine) SelectType(t catalog.ToolType) error {
	if m.phase != PhaseTypeSelection {
		return fmt.Errorf("cannot select type in phase %s", m.phase)
	}
	meta, ok := catalog.Lookup(t)
	if !ok {
		return fmt.Errorf("unknown tool type %q", t)
	}
	m.state = NewState(meta)
	m.phase = PhaseStep
	logging.Wizard("type selected: %s (%d steps)", t, meta.MaxSteps())
	return nil
}

// Resume begins a session from pre-built state, used by edit mode.
func (m *Machine) Resume(s *State) {
	m.state = s
	m.phase = PhaseStep
	logging.Wizard("resumed session for tool %s", s.EditingID)
}

// Next validates the current step and advances. On the final step it returns
// ErrAtFinalStep; validation failures return a *ValidationError and leave the
// step unchanged.
func (m *Machine) Next() error {
	if m.phase != PhaseStep {
		return fmt.Errorf("cannot advance in phase %s", m.phase)
	}
	if m.state.AtFinalStep() {
		return ErrAtFinalStep
	}
	if err := m.validateCurrent(); err != nil {
		logging.WizardDebug("step %d blocked: %v", m.state.StepIndex, err)
		return err
	}
	m.state.StepIndex++
	logging.WizardDebug("advanced to step %d (%s)", m.state.StepIndex, m.state.CurrentPanel())
	return nil
}

// Skip advances without validation. Only the Sources panel offers it.
func (m *Machine) Skip() error {
	if m.phase != PhaseStep {
		return fmt.Errorf("cannot skip in phase %s", m.phase)
	}
	if m.state.CurrentPanel() != PanelSources {
		return fmt.Errorf("skip is only available on the sources step")
	}
	if m.state.AtFinalStep() {
		return ErrAtFinalStep
	}
	m.state.StepIndex++
	return nil
}

// Back moves to the previous step. From step 1 it returns to type selection
// and fully resets the session.
func (m *Machine) Back() {
	if m.phase != PhaseStep {
		return
	}
	if m.state.StepIndex > 1 {
		m.state.StepIndex--
		return
	}
	logging.Session("wizard session reset (back from step 1)")
	m.state = nil
	m.phase = PhaseTypeSelection
}

// Cancel ends the session if confirmed. A declined confirmation leaves the
// session exactly as it was.
func (m *Machine) Cancel(confirmed bool) {
	if !confirmed {
		return
	}
	logging.Session("wizard session cancelled")
	m.state = nil
	m.phase = PhaseCancelled
}

// BeginSubmit moves Step(maxSteps) -> Submitting. Submission is only legal
// from the final step.
func (m *Machine) BeginSubmit() error {
	if m.phase != PhaseStep {
		return fmt.Errorf("cannot submit in phase %s", m.phase)
	}
	if !m.state.AtFinalStep() {
		return fmt.Errorf("submit is only available on the final step")
	}
	m.phase = PhaseSubmitting
	return nil
}

// FinishSubmit records the pipeline outcome: Submitting -> Submitted on
// success, back to the final step on failure so the user can retry.
func (m *Machine) FinishSubmit(err error) {
	if m.phase != PhaseSubmitting {
		return
	}
	if err != nil {
		logging.Wizard("submission failed, staying on review step: %v", err)
		m.phase = PhaseStep
		return
	}
	logging.Session("wizard session submitted")
	m.state = nil
	m.phase = PhaseSubmitted
}

// validateCurrent enforces the per-panel required fields: a non-empty name on
// Basics, the catalog's required fields on Config. Other panels have nothing
// mandatory.
func (m *Machine) validateCurrent() error {
	switch m.state.CurrentPanel() {
	case PanelBasics:
		if strings.TrimSpace(m.state.Name()) == "" {
			return &ValidationError{Field: "name", Message: "Name is required"}
		}
	case PanelConfig:
		for _, f := range m.state.Meta.RequiredFields() {
			if strings.TrimSpace(m.state.Field(f.Key)) == "" {
				return &ValidationError{
					Field:   f.Key,
					Message: fmt.Sprintf("%s is required", f.Label),
				}
			}
		}
	}
	return nil
}
