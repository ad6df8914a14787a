// Package auth defines the contract between the form handlers and the
// identity backend.
package auth

import (
	"context"

	"loyaltyclub/internal/model"
)

// Privilege selects which backend key a request runs with.
type Privilege int

const (
	// PrivilegeNone needs no backend at all.
	PrivilegeNone Privilege = iota
	// PrivilegeAnon acts on behalf of the signed-in user.
	PrivilegeAnon
	// PrivilegeService bypasses row-level policies; admin actions and account deletion.
	PrivilegeService
)

func (p Privilege) String() string {
	switch p {
	case PrivilegeAnon:
		return "anon"
	case PrivilegeService:
		return "service"
	default:
		return "none"
	}
}

type Provider interface {
	// GetUser resolves an access token to its user.
	GetUser(ctx context.Context, accessToken string) (*model.User, error)
	// SignUp creates an account. The returned session is nil when the
	// backend requires the email address to be confirmed first.
	SignUp(ctx context.Context, email, password string) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Session, error)
	UpdatePassword(ctx context.Context, accessToken, password string) error
	DeleteUser(ctx context.Context, userID string) error
}

// Factory hands out a Provider bound to the credentials of a privilege.
// ok is false when the backend is not configured for that privilege.
type Factory interface {
	Client(p Privilege) (client Provider, ok bool)
}
