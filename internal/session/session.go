// Package session enforces the single-active-session rule: each identity,
// patient or doctor, holds at most one valid session token at a time.
package session

import "errors"

// Role tags the two identity classes sharing the session semantics.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

var (
	// ErrNotFound indicates the identity does not exist.
	ErrNotFound = errors.New("identity not found")
	// ErrUnauthorized indicates the credential check failed.
	ErrUnauthorized = errors.New("invalid credential")
	// ErrSessionConflict indicates an active session already exists and the
	// caller did not ask to take it over.
	ErrSessionConflict = errors.New("identity already has an active session")
	// ErrInvalidSession indicates the presented token does not match the
	// stored one (or no session is active).
	ErrInvalidSession = errors.New("session is not valid")
)

// Identity is the session-relevant view of a patient or doctor row.
type Identity struct {
	ID            uint
	Email         string
	PasswordHash  string // empty for doctors; the assertion arrives pre-verified
	ActiveSession bool
	SessionToken  *string
}

// Session is the result of a successful authentication.
type Session struct {
	Role  Role   `json:"role"`
	ID    uint   `json:"id"`
	Token string `json:"sessionToken"`
}
