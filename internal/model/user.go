package model

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization levels.  The zero value is not a
// valid role; ParseRole is the only way to turn untrusted input into one.
type Role string

const (
	RoleUser  Role = "user"  // default for every signup
	RoleAdmin Role = "admin" // may mutate content; granted only by editing the store
)

// ParseRole validates a role read from a token or a store row.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsAdmin reports whether the role may mutate content.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	}
	return false
}

// User is an identity record as persisted by the credential store.
//
// Fields:
//
//	ID           – opaque identifier assigned at creation.
//	Username     – unique handle.
//	Email        – unique, stored as sent.
//	PasswordHash – bcrypt verifier; never serialized.
//	Role         – user or admin.
type User struct {
	ID           string    `json:"_id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Profile is the client-facing view of a User.  It has no field for the
// password verifier, so no code path can leak it through a response.
type Profile struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the verifier.
func (u *User) Public() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
