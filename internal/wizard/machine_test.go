package wizard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentforge/internal/catalog"
)

func TestSelectTypeStartsAtStepOne(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, PhaseTypeSelection, m.Phase())
	assert.Nil(t, m.State())

	require.NoError(t, m.SelectType(catalog.TypeAPI))
	assert.Equal(t, PhaseStep, m.Phase())
	assert.Equal(t, 1, m.State().StepIndex)
	assert.Equal(t, PanelBasics, m.State().CurrentPanel())
}

func TestSelectTypeRejectsUnknown(t *testing.T) {
	m := NewMachine()
	assert.Error(t, m.SelectType(catalog.ToolType("mystery")))
	assert.Equal(t, PhaseTypeSelection, m.Phase())
}

func TestNextRequiresNameOnBasics(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))

	err := m.Next()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, 1, m.State().StepIndex, "validation failure must not advance")

	m.State().SetField("name", "Weather")
	require.NoError(t, m.Next())
	assert.Equal(t, 2, m.State().StepIndex)
}

func TestNextRequiresConfigFields(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	m.State().SetField("name", "Weather")
	require.NoError(t, m.Next())
	require.Equal(t, PanelConfig, m.State().CurrentPanel())

	err := m.Next()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "endpoint_url", verr.Field)

	m.State().SetField("endpoint_url", "https://x.com")
	require.NoError(t, m.Next())
	assert.Equal(t, PanelAccess, m.State().CurrentPanel())
}

func TestNextUnavailableAtFinalStep(t *testing.T) {
	m := machineAtReview(t)
	require.True(t, m.State().AtFinalStep())
	assert.ErrorIs(t, m.Next(), ErrAtFinalStep)
	assert.Equal(t, m.State().MaxSteps(), m.State().StepIndex)
}

func TestSkipOnlyOnSourcesStep(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeKnowledge))
	m.State().SetField("name", "Docs")

	assert.Error(t, m.Skip(), "basics step must not allow skip")

	require.NoError(t, m.Next())
	require.Equal(t, PanelSources, m.State().CurrentPanel())
	require.NoError(t, m.Skip())
	assert.Equal(t, PanelAccess, m.State().CurrentPanel())
}

func TestBackFromStepOneFullyResets(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	m.State().SetField("name", "Weather")

	m.Back()
	assert.Equal(t, PhaseTypeSelection, m.Phase())
	assert.Nil(t, m.State())

	// A fresh selection starts with empty fields
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	assert.Empty(t, m.State().Name())
}

func TestBackStepsBackwards(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	m.State().SetField("name", "Weather")
	require.NoError(t, m.Next())

	m.Back()
	assert.Equal(t, 1, m.State().StepIndex)
	assert.Equal(t, "Weather", m.State().Name(), "stepping back keeps collected fields")
}

func TestDeclinedCancelKeepsEverything(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	m.State().SetField("name", "Weather")

	m.Cancel(false)
	assert.Equal(t, PhaseStep, m.Phase())
	require.NotNil(t, m.State())
	assert.Equal(t, "Weather", m.State().Name())

	m.Cancel(true)
	assert.Equal(t, PhaseCancelled, m.Phase())
	assert.Nil(t, m.State())
}

func TestSubmitLifecycle(t *testing.T) {
	m := machineAtReview(t)

	require.NoError(t, m.BeginSubmit())
	assert.Equal(t, PhaseSubmitting, m.Phase())

	// Failure returns to the final step with state intact for retry
	m.FinishSubmit(fmt.Errorf("server exploded"))
	assert.Equal(t, PhaseStep, m.Phase())
	require.NotNil(t, m.State())
	assert.True(t, m.State().AtFinalStep())

	require.NoError(t, m.BeginSubmit())
	m.FinishSubmit(nil)
	assert.Equal(t, PhaseSubmitted, m.Phase())
	assert.Nil(t, m.State())
}

func TestSubmitOnlyFromFinalStep(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	assert.Error(t, m.BeginSubmit())
}

func TestResumeForEdit(t *testing.T) {
	meta := catalog.MustLookup(catalog.TypeAPI)
	s := NewState(meta)
	s.EditingID = "tool-42"
	s.SetField("name", "Weather")

	m := NewMachine()
	m.Resume(s)
	assert.Equal(t, PhaseStep, m.Phase())
	assert.Equal(t, "tool-42", m.State().EditingID)
}

// machineAtReview walks an api-type session to the review step.
func machineAtReview(t *testing.T) *Machine {
	t.Helper()
	m := NewMachine()
	require.NoError(t, m.SelectType(catalog.TypeAPI))
	m.State().SetField("name", "Weather")
	require.NoError(t, m.Next())
	m.State().SetField("endpoint_url", "https://x.com")
	require.NoError(t, m.Next())
	require.NoError(t, m.Next()) // access step has no required fields
	require.Equal(t, PanelReview, m.State().CurrentPanel())
	return m
}

func TestValidationErrorMessage(t *testing.T) {
	var err error = &ValidationError{Field: "name", Message: "Name is required"}
	assert.Equal(t, "Name is required", err.Error())
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
