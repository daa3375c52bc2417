package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	linetimerv1 "github.com/osa030/linetimer/internal/api/linetimerv1"
	"github.com/osa030/linetimer/internal/api/linetimerv1/linetimerv1connect"
	"github.com/osa030/linetimer/internal/app/session"
	"github.com/osa030/linetimer/internal/domain/score"
)

// AdminService implements the AdminService RPC.
type AdminService struct {
	session *session.Manager
}

// NewAdminService creates a new AdminService.
func NewAdminService(session *session.Manager) *AdminService {
	return &AdminService{session: session}
}

// Ensure AdminService implements the interface.
var _ linetimerv1connect.AdminServiceHandler = (*AdminService)(nil)

// LoadRoster replaces the roster.
func (s *AdminService) LoadRoster(
	ctx context.Context,
	req *connect.Request[linetimerv1.LoadRosterRequest],
) (*connect.Response[linetimerv1.LoadRosterResponse], error) {
	if err := s.session.LoadRoster(req.Msg.Names); err != nil {
		return nil, toConnectError(err)
	}
	board := s.session.Board()
	return connect.NewResponse(&linetimerv1.LoadRosterResponse{
		GameID: board.GameID,
		Board:  board,
	}), nil
}

// ClearRoster removes every player.
func (s *AdminService) ClearRoster(
	ctx context.Context,
	req *connect.Request[linetimerv1.ClearRosterRequest],
) (*connect.Response[linetimerv1.ClearRosterResponse], error) {
	if err := s.session.ClearRoster(); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&linetimerv1.ClearRosterResponse{
		Board: s.session.Board(),
	}), nil
}

// StartGame starts or resumes the clock.
func (s *AdminService) StartGame(
	ctx context.Context,
	req *connect.Request[linetimerv1.StartGameRequest],
) (*connect.Response[linetimerv1.StartGameResponse], error) {
	changed, err := s.session.StartGame()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&linetimerv1.StartGameResponse{
		Changed: changed,
		Board:   s.session.Board(),
	}), nil
}

// PauseGame pauses the clock.
func (s *AdminService) PauseGame(
	ctx context.Context,
	req *connect.Request[linetimerv1.PauseGameRequest],
) (*connect.Response[linetimerv1.PauseGameResponse], error) {
	changed, err := s.session.PauseGame()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&linetimerv1.PauseGameResponse{
		Changed: changed,
		Board:   s.session.Board(),
	}), nil
}

// ResetGame zeroes the game.
func (s *AdminService) ResetGame(
	ctx context.Context,
	req *connect.Request[linetimerv1.ResetGameRequest],
) (*connect.Response[linetimerv1.ResetGameResponse], error) {
	if err := s.session.ResetGame(req.Msg.Full); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&linetimerv1.ResetGameResponse{
		Board: s.session.Board(),
	}), nil
}

// TogglePlayer switches a player on or off the field.
func (s *AdminService) TogglePlayer(
	ctx context.Context,
	req *connect.Request[linetimerv1.TogglePlayerRequest],
) (*connect.Response[linetimerv1.TogglePlayerResponse], error) {
	active, err := s.session.TogglePlayer(req.Msg.PlayerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&linetimerv1.TogglePlayerResponse{
		Active: active,
		Board:  s.session.Board(),
	}), nil
}

// AdjustScore moves a score counter by one step up or down.
func (s *AdminService) AdjustScore(
	ctx context.Context,
	req *connect.Request[linetimerv1.AdjustScoreRequest],
) (*connect.Response[linetimerv1.AdjustScoreResponse], error) {
	if req.Msg.Delta != 1 && req.Msg.Delta != -1 {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.Newf("delta must be 1 or -1, got %d", req.Msg.Delta))
	}
	side, err := score.ParseSide(req.Msg.Side)
	if err != nil {
		return nil, toConnectError(err)
	}
	current, err := s.session.AdjustScore(side, req.Msg.Delta)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&linetimerv1.AdjustScoreResponse{
		Score: current,
		Board: s.session.Board(),
	}), nil
}
