package api

import "time"

// Profile is the read-only user record fetched fresh each session.
type Profile struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Login      string    `json:"login"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
	AuditRatio float64   `json:"auditRatio"`
}

// Transaction is a provider-owned record. Skill rows carry only type and
// amount; xp rows carry the full set.
type Transaction struct {
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
	Path      string    `json:"path"`
	Object    *Object   `json:"object"`
}

// Object is the graded object an xp transaction belongs to.
type Object struct {
	Name string `json:"name"`
}

// ObjectName returns the object name or "" for rows without one.
func (t Transaction) ObjectName() string {
	if t.Object == nil {
		return ""
	}
	return t.Object.Name
}

// Account is everything the dashboard shows, from one query.
type Account struct {
	Profile Profile
	Skills  []Transaction
	XP      []Transaction
}
