package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPreviousStep(t *testing.T) {
	r := NewResolver(zap.NewNop())

	tests := []struct {
		name        string
		current     UIStep
		hasUploaded bool
		want        UIStep
		ok          bool
	}{
		{"profile review goes back to create", StepProfileReview, false, StepCreateProfile, true},
		{"select method goes back to profile review", StepSelectMethod, false, StepProfileReview, true},
		{"website analysis goes back to method selection", StepWebsiteAnalysis, false, StepSelectMethod, true},
		{"pdf upload goes back to method selection", StepPDFUpload, false, StepSelectMethod, true},
		{"questionnaire goes back to method selection", StepQuestionnaire, false, StepSelectMethod, true},
		{"review goes back to pdf upload after a deck upload", StepReview, true, StepPDFUpload, true},
		{"review goes back to questionnaire otherwise", StepReview, false, StepQuestionnaire, true},
		{"create profile is the start of the flow", StepCreateProfile, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.PreviousStep(tt.current, tt.hasUploaded)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResumeStep(t *testing.T) {
	r := NewResolver(zap.NewNop())

	assert.Equal(t, StepCreateProfile, r.ResumeStep(""))
	assert.Equal(t, StepCreateProfile, r.ResumeStep(PersistedStep("unknown")))
	assert.Equal(t, StepProfileReview, r.ResumeStep(PersistedTeamProfile))
	assert.Equal(t, StepQuestionnaire, r.ResumeStep(PersistedPackages))
	assert.Equal(t, StepReview, r.ResumeStep(PersistedCompleted))
}

func TestIsFullyComplete(t *testing.T) {
	r := NewResolver(zap.NewNop())

	assert.True(t, r.IsFullyComplete(ProfileState{OnboardingCompleted: true, CurrentStep: PersistedCompleted}))
	assert.False(t, r.IsFullyComplete(ProfileState{OnboardingCompleted: true, CurrentStep: PersistedReview}))
	assert.False(t, r.IsFullyComplete(ProfileState{OnboardingCompleted: false, CurrentStep: PersistedCompleted}))
	assert.False(t, r.IsFullyComplete(ProfileState{}))
}
