package entity

// Session is the authentication state of the device: anonymous, or
// authenticated as exactly one user. The zero value is anonymous.
type Session struct {
	userID string
}

// AnonymousSession returns a session with nobody logged in.
func AnonymousSession() Session {
	return Session{}
}

// AuthenticatedSession returns a session bound to userID.
func AuthenticatedSession(userID string) Session {
	return Session{userID: userID}
}

// IsAuthenticated reports whether a user is logged in.
func (s Session) IsAuthenticated() bool {
	return s.userID != ""
}

// UserID returns the logged-in user's id, or "" for anonymous sessions.
func (s Session) UserID() string {
	return s.userID
}
