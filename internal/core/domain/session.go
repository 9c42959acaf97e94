package domain

// SessionPhase is the tag of the session state
type SessionPhase string

const (
	PhaseCheckingSession     SessionPhase = "CheckingSession"
	PhaseUnauthenticated     SessionPhase = "Unauthenticated"
	PhaseAuthenticatingOAuth SessionPhase = "AuthenticatingOAuth"
	PhaseAuthenticated       SessionPhase = "Authenticated"
	PhaseAccessDenied        SessionPhase = "AccessDenied"
)

// SessionState is the login/session state. Email and Access are only set in
// Authenticated; Reason only in AccessDenied.
type SessionState struct {
	Phase  SessionPhase  `json:"phase"`
	Email  string        `json:"email,omitempty"`
	Access *AccessConfig `json:"access,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// EventKind enumerates session events
type EventKind string

const (
	EventSessionFound       EventKind = "SessionFound"
	EventNoSession          EventKind = "NoSession"
	EventSignInStarted      EventKind = "SignInStarted"
	EventOAuthApproved      EventKind = "OAuthApproved"
	EventOAuthRejected      EventKind = "OAuthRejected"
	EventSignedOut          EventKind = "SignedOut"
	EventSessionInvalidated EventKind = "SessionInvalidated"
)

// SessionEvent drives the reducer
type SessionEvent struct {
	Kind   EventKind
	Email  string
	Access *AccessConfig
	Reason string
}

// InitialSession is the state on load
func InitialSession() SessionState {
	return SessionState{Phase: PhaseCheckingSession}
}

// Reduce applies an event to a session state. Events that are not valid in the
// current phase return the state unchanged.
func Reduce(s SessionState, e SessionEvent) SessionState {
	switch s.Phase {
	case PhaseCheckingSession:
		switch e.Kind {
		case EventSessionFound:
			if e.Access == nil {
				return SessionState{Phase: PhaseUnauthenticated}
			}
			return SessionState{Phase: PhaseAuthenticated, Email: e.Email, Access: e.Access}
		case EventNoSession:
			return SessionState{Phase: PhaseUnauthenticated}
		}
	case PhaseUnauthenticated, PhaseAccessDenied:
		if e.Kind == EventSignInStarted {
			return SessionState{Phase: PhaseAuthenticatingOAuth}
		}
	case PhaseAuthenticatingOAuth:
		switch e.Kind {
		case EventOAuthApproved:
			if e.Access == nil {
				return SessionState{Phase: PhaseAccessDenied, Email: e.Email, Reason: "no access configured for role"}
			}
			return SessionState{Phase: PhaseAuthenticated, Email: e.Email, Access: e.Access}
		case EventOAuthRejected:
			return SessionState{Phase: PhaseAccessDenied, Email: e.Email, Reason: e.Reason}
		case EventSignedOut:
			return SessionState{Phase: PhaseUnauthenticated}
		}
	case PhaseAuthenticated:
		switch e.Kind {
		case EventSignedOut, EventSessionInvalidated:
			return SessionState{Phase: PhaseUnauthenticated}
		}
	}
	return s
}

// IsAuthenticated reports whether the state grants access
func (s SessionState) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}
