package wizard

import (
	"agentforge/internal/access"
	"agentforge/internal/catalog"
	"agentforge/internal/logging"
	"agentforge/internal/sources"
)

// State is the in-progress tool definition for one wizard session. It is
// created on type selection and explicitly owned by the machine; there is no
// package-level session state, so nothing can leak into the next session.
type State struct {
	Type   catalog.ToolType
	Meta   catalog.Meta
	Fields map[string]string

	// StepIndex is 1-based and always within [1, Meta.MaxSteps()].
	StepIndex int

	Sources *sources.Set
	Access  *access.Selection

	// EditingID holds the tool id when editing an existing tool; empty on
	// create.
	EditingID string
}

// NewState starts a session for the given type at step 1.
func NewState(meta catalog.Meta) *State {
	logging.Session("wizard session started for type %s", meta.Type)
	return &State{
		Type:      meta.Type,
		Meta:      meta,
		Fields:    make(map[string]string),
		StepIndex: 1,
		Sources:   sources.NewSet(),
		Access:    access.NewSelection(),
	}
}

// MaxSteps returns the number of logical steps for this session's type.
func (s *State) MaxSteps() int { return s.Meta.MaxSteps() }

// AtFinalStep reports whether the session sits on the last logical step,
// where Next is unavailable and only Submit is offered.
func (s *State) AtFinalStep() bool { return s.StepIndex == s.MaxSteps() }

// CurrentPanel resolves the physical panel for the current step.
func (s *State) CurrentPanel() Panel {
	return Resolve(s.Type, s.StepIndex)
}

// CurrentStepName returns the logical step name shown in the header.
func (s *State) CurrentStepName() catalog.Step {
	return s.Meta.Steps[s.StepIndex-1]
}

// SetField records one form value. The UI copies panel inputs in here before
// the machine validates a transition.
func (s *State) SetField(key, value string) {
	s.Fields[key] = value
}

// Field reads one form value.
func (s *State) Field(key string) string {
	return s.Fields[key]
}

// Name and Description are the two Basics fields every type shares.
func (s *State) Name() string        { return s.Fields["name"] }
func (s *State) Description() string { return s.Fields["description"] }

// Config returns the type-specific config values keyed by field key,
// restricted to the fields the catalog declares for this type.
func (s *State) Config() map[string]string {
	cfg := make(map[string]string, len(s.Meta.Fields))
	for _, f := range s.Meta.Fields {
		if v, ok := s.Fields[f.Key]; ok && v != "" {
			cfg[f.Key] = v
		}
	}
	return cfg
}
