package domain

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID            uuid.UUID  `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Verified      bool       `json:"verified"`
	JoinedAt      time.Time  `json:"joined_at"`
	LastSeenAt    *time.Time `json:"last_seen_at,omitempty"`
	LastLoginAddr *string    `json:"last_login_addr,omitempty"`
	// Resolved relationship fields
	Following []AccountSummary `json:"following"`
	Followers []AccountSummary `json:"followers"`
}

// AccountSummary is the shape an account takes when it appears inside
// another account's follower/following lists.
type AccountSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Verified  bool      `json:"verified"`
}

// AccountFilter narrows lookups; nil fields are ignored.
type AccountFilter struct {
	ID       *uuid.UUID
	Username *string
	Email    *string
	Verified *bool
}

// AccountPatch is a partial update; nil fields are left untouched.
type AccountPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Verified  *bool   `json:"verified,omitempty"`
}

type AccountPage struct {
	Items      []Account `json:"items"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalCount int       `json:"total_count"`
	Pages      int       `json:"pages"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:        a.ID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Verified:  a.Verified,
	}
}
