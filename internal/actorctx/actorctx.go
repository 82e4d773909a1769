// Package actorctx carries the authenticated caller through a request context.
package actorctx

import "context"

type ctxKey struct{}

type Actor struct {
	UserID   string
	Username string
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func From(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)

	return a, ok && a.UserID != ""
}
