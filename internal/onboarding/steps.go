package onboarding

// UIStep identifies a screen in the team onboarding flow. It is a
// presentation-layer concept and is never persisted directly.
type UIStep string

const (
	StepCreateProfile   UIStep = "create-profile"
	StepProfileReview   UIStep = "profile-review"
	StepSelectMethod    UIStep = "select-method"
	StepWebsiteAnalysis UIStep = "website-analysis"
	StepPDFUpload       UIStep = "pdf-upload"
	StepQuestionnaire   UIStep = "questionnaire"
	StepReview          UIStep = "review"
)

// PersistedStep is the durable onboarding milestone stored on the team
// profile. It is coarser than UIStep: several screens can belong to the
// same milestone.
type PersistedStep string

const (
	PersistedAccountCreated  PersistedStep = "account_created"
	PersistedTeamProfile     PersistedStep = "team_profile"
	PersistedWebsiteAnalyzed PersistedStep = "website_analyzed"
	PersistedPackages        PersistedStep = "packages"
	PersistedReview          PersistedStep = "review"
	PersistedCompleted       PersistedStep = "completed"
)

// UISteps lists every UI step in flow order.
var UISteps = []UIStep{
	StepCreateProfile,
	StepProfileReview,
	StepSelectMethod,
	StepWebsiteAnalysis,
	StepPDFUpload,
	StepQuestionnaire,
	StepReview,
}

// PersistedSteps lists every persisted milestone in progression order.
var PersistedSteps = []PersistedStep{
	PersistedAccountCreated,
	PersistedTeamProfile,
	PersistedWebsiteAnalyzed,
	PersistedPackages,
	PersistedReview,
	PersistedCompleted,
}

// ToPersisted maps a UI step to the milestone it belongs to. The mapping
// is many-to-one: both profile screens share team_profile, and both
// analysis paths share website_analyzed. Unknown input falls back to the
// initial milestone rather than failing, since an out-of-range step is a
// programming error, not user data.
func ToPersisted(step UIStep) PersistedStep {
	switch step {
	case StepCreateProfile:
		return PersistedAccountCreated
	case StepProfileReview, StepSelectMethod:
		return PersistedTeamProfile
	case StepWebsiteAnalysis, StepPDFUpload:
		return PersistedWebsiteAnalyzed
	case StepQuestionnaire:
		return PersistedPackages
	case StepReview:
		return PersistedReview
	default:
		return PersistedAccountCreated
	}
}

// ToUIStep maps a persisted milestone back to the canonical screen to
// resume at. Within a milestone the first screen is chosen; sub-step
// position inside a milestone is not recoverable from the persisted
// value. completed maps to the review screen as a defensive fallback
// for callers that reach step resolution with a finished profile.
func ToUIStep(step PersistedStep) UIStep {
	switch step {
	case PersistedAccountCreated:
		return StepCreateProfile
	case PersistedTeamProfile:
		return StepProfileReview
	case PersistedWebsiteAnalyzed:
		return StepWebsiteAnalysis
	case PersistedPackages:
		return StepQuestionnaire
	case PersistedReview:
		return StepReview
	case PersistedCompleted:
		return StepReview
	default:
		return StepCreateProfile
	}
}
