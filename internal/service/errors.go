package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

var (
	errAuthRequired = errors.New("authentication required")
	errServer       = errors.New("server error")
)

// requireActor returns the authenticated user for the call.
func requireActor(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}

// toConnectError maps ledger errors onto Connect codes. Validation errors
// carry their message to the caller. Anything unexpected is logged in full
// and answered with a generic message.
func toConnectError(ctx context.Context, op string, err error) error {
	switch {
	case models.IsValidation(err),
		errors.Is(err, ledger.ErrInvalidGroup),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrTooPrecise):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrNotGroupMember):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case ledger.IsUnavailable(err):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	slog.ErrorContext(ctx, op+" failed", "error", err, "user_id", middleware.GetUserID(ctx))
	return connect.NewError(connect.CodeInternal, errServer)
}
