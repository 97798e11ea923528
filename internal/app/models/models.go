package models

// RoleType identifies the kind of principal a token was issued to
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleOfficer RoleType = "officer"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleOfficer
}
