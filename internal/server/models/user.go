// Package models defines the server-side records persisted in the record
// store. JSON field names are the stored and wire representation.
package models

// User is an account, keyed by phone.
type User struct {
	Phone          string   `json:"phone"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	HashedPassword string   `json:"hashedPassword"`
	TOSAgreement   bool     `json:"tosAgreement"`
	Checks         []string `json:"checks"`
}

// UserProfile is what callers outside the service see: everything but the
// password hash.
type UserProfile struct {
	Phone        string   `json:"phone"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	TOSAgreement bool     `json:"tosAgreement"`
	Checks       []string `json:"checks"`
}

// Profile strips the hash.
func (u *User) Profile() *UserProfile {
	checks := make([]string, len(u.Checks))
	copy(checks, u.Checks)
	return &UserProfile{
		Phone:        u.Phone,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		TOSAgreement: u.TOSAgreement,
		Checks:       checks,
	}
}

// RemoveCheck drops the first occurrence of id and reports whether it was
// present.
func (u *User) RemoveCheck(id string) bool {
	for i, c := range u.Checks {
		if c == id {
			u.Checks = append(u.Checks[:i], u.Checks[i+1:]...)
			return true
		}
	}
	return false
}
