package onboarding

import (
	"go.uber.org/zap"
)

// ProfileState is the snapshot of the two profile fields the completion
// gate depends on. Both fields must come from the same read of the
// profile row so the gate never sees a torn state.
type ProfileState struct {
	OnboardingCompleted bool
	CurrentStep         PersistedStep
}

// Resolver decides where a returning user resumes the onboarding flow
// and whether backward navigation is possible.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// PreviousStep returns the screen backward navigation lands on from
// current. The review screen branches on whether this session uploaded a
// pitch deck, carried in session state rather than derived from the
// persisted milestone. The second return is false at the start of the
// flow, where back navigation is a no-op.
func (r *Resolver) PreviousStep(current UIStep, hasUploadedDocument bool) (UIStep, bool) {
	switch current {
	case StepProfileReview:
		return StepCreateProfile, true
	case StepSelectMethod:
		return StepProfileReview, true
	case StepWebsiteAnalysis, StepPDFUpload, StepQuestionnaire:
		return StepSelectMethod, true
	case StepReview:
		if hasUploadedDocument {
			return StepPDFUpload, true
		}
		return StepQuestionnaire, true
	default:
		return "", false
	}
}

// ResumeStep resolves the screen to render for a persisted milestone.
// An absent or unrecognized value resumes at the start of the flow. A
// completed profile should never reach step resolution; when it does we
// log it and fall back to the review screen instead of guessing a
// redirect.
func (r *Resolver) ResumeStep(persisted PersistedStep) UIStep {
	if persisted == "" {
		return StepCreateProfile
	}
	if persisted == PersistedCompleted {
		r.logger.Warn("step resolution reached with a completed profile",
			zap.String("persisted_step", string(persisted)))
	}
	return ToUIStep(persisted)
}

// IsFullyComplete reports whether the profile has finished onboarding.
// The completed flag and the terminal step must both agree; the persisted
// step is authoritative over any cached client assumption, so a stale
// tab cannot unlock the dashboard with only the flag set.
func (r *Resolver) IsFullyComplete(state ProfileState) bool {
	return state.OnboardingCompleted && state.CurrentStep == PersistedCompleted
}
