package livesync

import "context"

type contextKey string

// SurfaceIDKey carries the edit-surface identity (desktop board, mobile
// editor) through the request context.
const SurfaceIDKey contextKey = "surfaceID"

// WithSurface returns a context carrying the given surface identity.
func WithSurface(ctx context.Context, surfaceID string) context.Context {
	return context.WithValue(ctx, SurfaceIDKey, surfaceID)
}

// SurfaceID extracts the surface identity from the context, defaulting to
// "desktop" when none was propagated.
func SurfaceID(ctx context.Context) string {
	if id, ok := ctx.Value(SurfaceIDKey).(string); ok && id != "" {
		return id
	}
	return "desktop"
}
