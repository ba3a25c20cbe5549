package httpapi

import (
	"context"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p player.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (player.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(player.Principal)
	return p, ok
}
