package guard

import (
	"strings"

	"github.com/google/uuid"

	"pitchside/marketplace-backend/internal/onboarding"
)

// State classifies a navigation attempt.
type State string

const (
	StateLoading              State = "loading"
	StateUnauthenticated      State = "unauthenticated"
	StateWrongRole            State = "wrong-role"
	StateOnboardingIncomplete State = "onboarding-incomplete"
	StateAuthorized           State = "authorized"
)

// Well-known client routes the guard decides between.
const (
	PathSignIn     = "/signin"
	PathDashboard  = "/dashboard"
	PathOnboarding = "/onboarding"
	PathSponsor    = "/sponsor"
)

// rolePrefixes maps a path prefix to the role allowed under it.
var rolePrefixes = map[string]string{
	PathDashboard:  "team",
	PathOnboarding: "team",
	PathSponsor:    "sponsor",
}

// apiRolePrefixes extends the role map to the API mounts serving each
// client surface. Offer, analysis, and document routes serve the
// onboarding flow as well as the dashboard, so they carry the team
// role check without the completion gate.
var apiRolePrefixes = map[string]string{
	"/api/v1/onboarding":  "team",
	"/api/v1/offers":      "team",
	"/api/v1/analysis":    "team",
	"/api/v1/documents":   "team",
	"/api/v1/marketplace": "sponsor",
}

// roleHome is where a user lands when they hit a path their role cannot
// access.
var roleHome = map[string]string{
	"team":    PathDashboard,
	"sponsor": PathSponsor,
}

// Session is everything the guard needs to decide, captured in one
// snapshot. HasProfile and Profile must come from the same profile read.
type Session struct {
	Loading    bool
	UserID     uuid.UUID
	Role       string
	HasProfile bool
	Profile    onboarding.ProfileState
}

// Decision is the guard's verdict: either render the requested path or
// redirect elsewhere. Loading renders a waiting indicator and is
// terminal until the session resolves.
type Decision struct {
	State    State
	Render   bool
	Redirect string
}

// Guard is a pure decision function over session state and target path.
// It owns no navigation mechanism, so it is testable in isolation, and
// it must be re-evaluated on every navigation: the same session can
// authorize one path and not another.
type Guard struct {
	resolver *onboarding.Resolver
}

func New(resolver *onboarding.Resolver) *Guard {
	return &Guard{resolver: resolver}
}

// NeedsProfile reports whether deciding path requires the profile
// snapshot. Role checks come from the session alone; only the
// completion gate reads the profile.
func NeedsProfile(path string) bool {
	return strings.HasPrefix(path, PathDashboard) || strings.HasPrefix(path, PathOnboarding)
}

// Evaluate decides whether path may render for this session.
func (g *Guard) Evaluate(s Session, path string) Decision {
	if s.Loading {
		return Decision{State: StateLoading}
	}

	if s.UserID == uuid.Nil {
		return Decision{State: StateUnauthenticated, Redirect: PathSignIn}
	}

	for prefix, role := range rolePrefixes {
		if strings.HasPrefix(path, prefix) && s.Role != role {
			return Decision{State: StateWrongRole, Redirect: roleHome[s.Role]}
		}
	}
	for prefix, role := range apiRolePrefixes {
		if strings.HasPrefix(path, prefix) && s.Role != role {
			return Decision{State: StateWrongRole, Redirect: roleHome[s.Role]}
		}
	}

	// The completion gate: profile exists, flag set, terminal step. All
	// three from the same snapshot.
	complete := s.HasProfile && g.resolver.IsFullyComplete(s.Profile)

	if strings.HasPrefix(path, PathDashboard) && !complete {
		return Decision{State: StateOnboardingIncomplete, Redirect: PathOnboarding}
	}

	// A finished flow cannot be re-entered; bounce back to the dashboard.
	if strings.HasPrefix(path, PathOnboarding) && complete {
		return Decision{State: StateAuthorized, Redirect: PathDashboard}
	}

	return Decision{State: StateAuthorized, Render: true}
}
