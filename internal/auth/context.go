package auth

import (
	"context"
	"slices"

	"qcreports/internal/models"
)

type claimsKey struct{}

// Claims are the verified token fields a request runs with.
type Claims struct {
	Subject string
	JWTID   string
	Roles   []string
}

func (c Claims) HasRole(role string) bool { return slices.Contains(c.Roles, role) }

func (c Claims) IsAdmin() bool { return c.HasRole(models.RollAdmin) }

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext returns the request's claims, or zero Claims for an
// unauthenticated context.
func FromContext(ctx context.Context) Claims {
	c, _ := ctx.Value(claimsKey{}).(Claims)
	return c
}

// Subject is the authenticated user's id.
func Subject(ctx context.Context) string { return FromContext(ctx).Subject }
