package actorctx

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{UserID: "u1", Username: "reader"})

	a, ok := From(ctx)
	if !ok {
		t.Fatalf("expected actor in context")
	}
	if a.Username != "reader" {
		t.Fatalf("got username %q, want reader", a.Username)
	}

	if _, ok := From(context.Background()); ok {
		t.Fatalf("expected no actor in empty context")
	}
	if _, ok := From(WithActor(context.Background(), Actor{})); ok {
		t.Fatalf("actor without user id should not count")
	}
}
