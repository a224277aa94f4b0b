package checkout

import "github.com/google/uuid"

// Actor identifies who is shopping: an authenticated user or an
// anonymous session. Resolved once at the request boundary and
// threaded through every downstream call.
type Actor struct {
	UserID    uuid.UUID
	SessionID string
}

// AuthenticatedActor builds an Actor for a logged-in user.
func AuthenticatedActor(userID uuid.UUID) Actor {
	return Actor{UserID: userID}
}

// AnonymousActor builds an Actor for a guest session.
func AnonymousActor(sessionID string) Actor {
	return Actor{SessionID: sessionID}
}

// Authenticated reports whether the actor is a logged-in user.
func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

// Known reports whether the actor carries any identity at all.
func (a Actor) Known() bool {
	return a.Authenticated() || a.SessionID != ""
}
