package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/linetimer/internal/app/names"
	"github.com/osa030/linetimer/internal/app/roster"
	"github.com/osa030/linetimer/internal/app/session"
	"github.com/osa030/linetimer/internal/domain/score"
)

// toConnectError maps session errors onto connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, roster.ErrPlayerNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, names.ErrNoNames), errors.Is(err, score.ErrUnknownSide):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrSessionClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
