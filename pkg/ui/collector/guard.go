package collector

// Guard decides which users may drive a session.
type Guard struct {
	owner string
}

// OwnerOnly binds a guard to the user who opened the session.
func OwnerOnly(ownerID string) Guard {
	return Guard{owner: ownerID}
}

// Owner returns the bound user ID.
func (g Guard) Owner() string {
	return g.owner
}

// Allows reports whether userID may interact. An empty ID never matches.
func (g Guard) Allows(userID string) bool {
	return userID != "" && userID == g.owner
}
