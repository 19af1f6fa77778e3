package utils

import (
	"context"
)

type contextKey string

const requesterKey contextKey = "requester"

// SetRequesterContext stores the caller-supplied requester identity. The core
// never reads ambient security state; handlers lift the identity out of the
// context and pass it into the usecase explicitly.
func SetRequesterContext(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, requesterKey, email)
}

func GetRequesterFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(requesterKey).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
