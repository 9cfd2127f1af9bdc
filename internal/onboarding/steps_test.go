package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPersistedTotality(t *testing.T) {
	valid := map[PersistedStep]bool{}
	for _, s := range PersistedSteps {
		valid[s] = true
	}

	for _, step := range UISteps {
		assert.True(t, valid[ToPersisted(step)], "UI step %q must map into the persisted enum", step)
	}
}

func TestToUIStepTotality(t *testing.T) {
	valid := map[UIStep]bool{}
	for _, s := range UISteps {
		valid[s] = true
	}

	for _, step := range PersistedSteps {
		assert.True(t, valid[ToUIStep(step)], "persisted step %q must map into the UI enum", step)
	}
}

func TestToPersistedMapping(t *testing.T) {
	tests := []struct {
		ui        UIStep
		persisted PersistedStep
	}{
		{StepCreateProfile, PersistedAccountCreated},
		{StepProfileReview, PersistedTeamProfile},
		{StepSelectMethod, PersistedTeamProfile},
		{StepWebsiteAnalysis, PersistedWebsiteAnalyzed},
		{StepPDFUpload, PersistedWebsiteAnalyzed},
		{StepQuestionnaire, PersistedPackages},
		{StepReview, PersistedReview},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.persisted, ToPersisted(tt.ui), "forward mapping for %q", tt.ui)
	}
}

func TestToUIStepCompletedFallsBackToReview(t *testing.T) {
	assert.Equal(t, StepReview, ToUIStep(PersistedCompleted))
}

func TestMappingUnknownInputs(t *testing.T) {
	assert.Equal(t, PersistedAccountCreated, ToPersisted(UIStep("bogus")))
	assert.Equal(t, StepCreateProfile, ToUIStep(PersistedStep("bogus")))
}
