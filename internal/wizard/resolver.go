// Package wizard implements the tool-creation wizard: the session state, the
// logical-to-physical step resolver and the navigation state machine. The UI
// layer renders whatever panel the resolver names; all transition rules live
// here, not in the view.
package wizard

import "agentforge/internal/catalog"

// Panel identifies one of the six fixed physical panels. The Test panel is a
// leftover from an earlier wizard revision; no current step list maps to it
// but the resolver still knows its position for the identity fallback.
type Panel string

const (
	PanelBasics  Panel = "basics"
	PanelConfig  Panel = "config"
	PanelSources Panel = "sources"
	PanelTest    Panel = "test"
	PanelAccess  Panel = "access"
	PanelReview  Panel = "review"
)

// physicalOrder is the fixed panel superset in on-screen order.
var physicalOrder = []Panel{PanelBasics, PanelConfig, PanelSources, PanelTest, PanelAccess, PanelReview}

// stepPanel maps a logical step name to its physical panel.
var stepPanel = map[catalog.Step]Panel{
	catalog.StepBasics:        PanelBasics,
	catalog.StepConfiguration: PanelConfig,
	catalog.StepSources:       PanelSources,
	catalog.StepAccess:        PanelAccess,
	catalog.StepReview:        PanelReview,
}

// Resolve translates a 1-based logical step into the physical panel for the
// given tool type. The mapping is generated from the type's step list, so
// there is exactly one source of truth for step ordering. Unknown types fall
// back to the identity mapping over the physical panel order. Out-of-range
// steps are the caller's bug; they are clamped rather than rejected.
func Resolve(t catalog.ToolType, step int) Panel {
	meta, ok := catalog.Lookup(t)
	if !ok {
		return identity(step)
	}
	if step < 1 {
		step = 1
	}
	if step > len(meta.Steps) {
		step = len(meta.Steps)
	}
	if p, ok := stepPanel[meta.Steps[step-1]]; ok {
		return p
	}
	return identity(step)
}

func identity(step int) Panel {
	if step < 1 {
		step = 1
	}
	if step > len(physicalOrder) {
		step = len(physicalOrder)
	}
	return physicalOrder[step-1]
}
