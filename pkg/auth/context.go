package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type ctxKey int

const callerKey ctxKey = iota

// Caller is the resolved identity of the current request: who is
// calling and with which role inside which organization.
type Caller struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   Role
}

func SetCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func GetCaller(ctx context.Context) (Caller, error) {
	caller, ok := ctx.Value(callerKey).(Caller)
	if !ok {
		return Caller{}, errors.New("no caller in context")
	}
	return caller, nil
}
