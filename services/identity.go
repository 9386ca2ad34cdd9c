package services

import (
	"context"

	"blog-cms/models"
)

// Identity is what a verified token proves about its bearer.
type Identity struct {
	UserID   uint
	Username string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity attached by the access guard, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}

func requireIdentity(identity *Identity) error {
	if identity == nil {
		return models.ErrorUnauthorized{Message: "authentication required"}
	}
	return nil
}
