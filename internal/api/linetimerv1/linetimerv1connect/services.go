// Package linetimerv1connect wires the linetimer.v1 services to connect
// handlers and clients.
package linetimerv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	linetimerv1 "github.com/osa030/linetimer/internal/api/linetimerv1"
)

const (
	// BoardServiceName is the fully-qualified name of the BoardService service.
	BoardServiceName = "linetimer.v1.BoardService"
	// AdminServiceName is the fully-qualified name of the AdminService service.
	AdminServiceName = "linetimer.v1.AdminService"
)

// Procedure paths, as used in HTTP routes.
const (
	BoardServiceGetBoardProcedure = "/linetimer.v1.BoardService/GetBoard"
	BoardServiceWatchProcedure    = "/linetimer.v1.BoardService/Watch"

	AdminServiceLoadRosterProcedure   = "/linetimer.v1.AdminService/LoadRoster"
	AdminServiceClearRosterProcedure  = "/linetimer.v1.AdminService/ClearRoster"
	AdminServiceStartGameProcedure    = "/linetimer.v1.AdminService/StartGame"
	AdminServicePauseGameProcedure    = "/linetimer.v1.AdminService/PauseGame"
	AdminServiceResetGameProcedure    = "/linetimer.v1.AdminService/ResetGame"
	AdminServiceTogglePlayerProcedure = "/linetimer.v1.AdminService/TogglePlayer"
	AdminServiceAdjustScoreProcedure  = "/linetimer.v1.AdminService/AdjustScore"
)

// BoardServiceHandler is implemented by the public board service.
type BoardServiceHandler interface {
	GetBoard(context.Context, *connect.Request[linetimerv1.GetBoardRequest]) (*connect.Response[linetimerv1.GetBoardResponse], error)
	Watch(context.Context, *connect.Request[linetimerv1.WatchRequest], *connect.ServerStream[linetimerv1.WatchResponse]) error
}

// AdminServiceHandler is implemented by the token-protected admin service.
type AdminServiceHandler interface {
	LoadRoster(context.Context, *connect.Request[linetimerv1.LoadRosterRequest]) (*connect.Response[linetimerv1.LoadRosterResponse], error)
	ClearRoster(context.Context, *connect.Request[linetimerv1.ClearRosterRequest]) (*connect.Response[linetimerv1.ClearRosterResponse], error)
	StartGame(context.Context, *connect.Request[linetimerv1.StartGameRequest]) (*connect.Response[linetimerv1.StartGameResponse], error)
	PauseGame(context.Context, *connect.Request[linetimerv1.PauseGameRequest]) (*connect.Response[linetimerv1.PauseGameResponse], error)
	ResetGame(context.Context, *connect.Request[linetimerv1.ResetGameRequest]) (*connect.Response[linetimerv1.ResetGameResponse], error)
	TogglePlayer(context.Context, *connect.Request[linetimerv1.TogglePlayerRequest]) (*connect.Response[linetimerv1.TogglePlayerResponse], error)
	AdjustScore(context.Context, *connect.Request[linetimerv1.AdjustScoreRequest]) (*connect.Response[linetimerv1.AdjustScoreResponse], error)
}

// NewBoardServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewBoardServiceHandler(svc BoardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	getBoard := connect.NewUnaryHandler(BoardServiceGetBoardProcedure, svc.GetBoard, opts...)
	watch := connect.NewServerStreamHandler(BoardServiceWatchProcedure, svc.Watch, opts...)

	return "/" + BoardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BoardServiceGetBoardProcedure:
			getBoard.ServeHTTP(w, r)
		case BoardServiceWatchProcedure:
			watch.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewAdminServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	handlers := map[string]http.Handler{
		AdminServiceLoadRosterProcedure:   connect.NewUnaryHandler(AdminServiceLoadRosterProcedure, svc.LoadRoster, opts...),
		AdminServiceClearRosterProcedure:  connect.NewUnaryHandler(AdminServiceClearRosterProcedure, svc.ClearRoster, opts...),
		AdminServiceStartGameProcedure:    connect.NewUnaryHandler(AdminServiceStartGameProcedure, svc.StartGame, opts...),
		AdminServicePauseGameProcedure:    connect.NewUnaryHandler(AdminServicePauseGameProcedure, svc.PauseGame, opts...),
		AdminServiceResetGameProcedure:    connect.NewUnaryHandler(AdminServiceResetGameProcedure, svc.ResetGame, opts...),
		AdminServiceTogglePlayerProcedure: connect.NewUnaryHandler(AdminServiceTogglePlayerProcedure, svc.TogglePlayer, opts...),
		AdminServiceAdjustScoreProcedure:  connect.NewUnaryHandler(AdminServiceAdjustScoreProcedure, svc.AdjustScore, opts...),
	}

	return "/" + AdminServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(linetimerv1.Codec{})}, opts...)
}

// BoardServiceClient is a client for the linetimer.v1.BoardService service.
type BoardServiceClient interface {
	GetBoard(context.Context, *connect.Request[linetimerv1.GetBoardRequest]) (*connect.Response[linetimerv1.GetBoardResponse], error)
	Watch(context.Context, *connect.Request[linetimerv1.WatchRequest]) (*connect.ServerStreamForClient[linetimerv1.WatchResponse], error)
}

// NewBoardServiceClient constructs a client for the BoardService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewBoardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BoardServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(linetimerv1.Codec{})}, opts...)
	return &boardServiceClient{
		getBoard: connect.NewClient[linetimerv1.GetBoardRequest, linetimerv1.GetBoardResponse](
			httpClient, baseURL+BoardServiceGetBoardProcedure, opts...),
		watch: connect.NewClient[linetimerv1.WatchRequest, linetimerv1.WatchResponse](
			httpClient, baseURL+BoardServiceWatchProcedure, opts...),
	}
}

type boardServiceClient struct {
	getBoard *connect.Client[linetimerv1.GetBoardRequest, linetimerv1.GetBoardResponse]
	watch    *connect.Client[linetimerv1.WatchRequest, linetimerv1.WatchResponse]
}

func (c *boardServiceClient) GetBoard(ctx context.Context, req *connect.Request[linetimerv1.GetBoardRequest]) (*connect.Response[linetimerv1.GetBoardResponse], error) {
	return c.getBoard.CallUnary(ctx, req)
}

func (c *boardServiceClient) Watch(ctx context.Context, req *connect.Request[linetimerv1.WatchRequest]) (*connect.ServerStreamForClient[linetimerv1.WatchResponse], error) {
	return c.watch.CallServerStream(ctx, req)
}

// AdminServiceClient is a client for the linetimer.v1.AdminService service.
type AdminServiceClient interface {
	LoadRoster(context.Context, *connect.Request[linetimerv1.LoadRosterRequest]) (*connect.Response[linetimerv1.LoadRosterResponse], error)
	ClearRoster(context.Context, *connect.Request[linetimerv1.ClearRosterRequest]) (*connect.Response[linetimerv1.ClearRosterResponse], error)
	StartGame(context.Context, *connect.Request[linetimerv1.StartGameRequest]) (*connect.Response[linetimerv1.StartGameResponse], error)
	PauseGame(context.Context, *connect.Request[linetimerv1.PauseGameRequest]) (*connect.Response[linetimerv1.PauseGameResponse], error)
	ResetGame(context.Context, *connect.Request[linetimerv1.ResetGameRequest]) (*connect.Response[linetimerv1.ResetGameResponse], error)
	TogglePlayer(context.Context, *connect.Request[linetimerv1.TogglePlayerRequest]) (*connect.Response[linetimerv1.TogglePlayerResponse], error)
	AdjustScore(context.Context, *connect.Request[linetimerv1.AdjustScoreRequest]) (*connect.Response[linetimerv1.AdjustScoreResponse], error)
}

// NewAdminServiceClient constructs a client for the AdminService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AdminServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(linetimerv1.Codec{})}, opts...)
	return &adminServiceClient{
		loadRoster: connect.NewClient[linetimerv1.LoadRosterRequest, linetimerv1.LoadRosterResponse](
			httpClient, baseURL+AdminServiceLoadRosterProcedure, opts...),
		clearRoster: connect.NewClient[linetimerv1.ClearRosterRequest, linetimerv1.ClearRosterResponse](
			httpClient, baseURL+AdminServiceClearRosterProcedure, opts...),
		startGame: connect.NewClient[linetimerv1.StartGameRequest, linetimerv1.StartGameResponse](
			httpClient, baseURL+AdminServiceStartGameProcedure, opts...),
		pauseGame: connect.NewClient[linetimerv1.PauseGameRequest, linetimerv1.PauseGameResponse](
			httpClient, baseURL+AdminServicePauseGameProcedure, opts...),
		resetGame: connect.NewClient[linetimerv1.ResetGameRequest, linetimerv1.ResetGameResponse](
			httpClient, baseURL+AdminServiceResetGameProcedure, opts...),
		togglePlayer: connect.NewClient[linetimerv1.TogglePlayerRequest, linetimerv1.TogglePlayerResponse](
			httpClient, baseURL+AdminServiceTogglePlayerProcedure, opts...),
		adjustScore: connect.NewClient[linetimerv1.AdjustScoreRequest, linetimerv1.AdjustScoreResponse](
			httpClient, baseURL+AdminServiceAdjustScoreProcedure, opts...),
	}
}

type adminServiceClient struct {
	loadRoster   *connect.Client[linetimerv1.LoadRosterRequest, linetimerv1.LoadRosterResponse]
	clearRoster  *connect.Client[linetimerv1.ClearRosterRequest, linetimerv1.ClearRosterResponse]
	startGame    *connect.Client[linetimerv1.StartGameRequest, linetimerv1.StartGameResponse]
	pauseGame    *connect.Client[linetimerv1.PauseGameRequest, linetimerv1.PauseGameResponse]
	resetGame    *connect.Client[linetimerv1.ResetGameRequest, linetimerv1.ResetGameResponse]
	togglePlayer *connect.Client[linetimerv1.TogglePlayerRequest, linetimerv1.TogglePlayerResponse]
	adjustScore  *connect.Client[linetimerv1.AdjustScoreRequest, linetimerv1.AdjustScoreResponse]
}

func (c *adminServiceClient) LoadRoster(ctx context.Context, req *connect.Request[linetimerv1.LoadRosterRequest]) (*connect.Response[linetimerv1.LoadRosterResponse], error) {
	return c.loadRoster.CallUnary(ctx, req)
}

func (c *adminServiceClient) ClearRoster(ctx context.Context, req *connect.Request[linetimerv1.ClearRosterRequest]) (*connect.Response[linetimerv1.ClearRosterResponse], error) {
	return c.clearRoster.CallUnary(ctx, req)
}

func (c *adminServiceClient) StartGame(ctx context.Context, req *connect.Request[linetimerv1.StartGameRequest]) (*connect.Response[linetimerv1.StartGameResponse], error) {
	return c.startGame.CallUnary(ctx, req)
}

func (c *adminServiceClient) PauseGame(ctx context.Context, req *connect.Request[linetimerv1.PauseGameRequest]) (*connect.Response[linetimerv1.PauseGameResponse], error) {
	return c.pauseGame.CallUnary(ctx, req)
}

func (c *adminServiceClient) ResetGame(ctx context.Context, req *connect.Request[linetimerv1.ResetGameRequest]) (*connect.Response[linetimerv1.ResetGameResponse], error) {
	return c.resetGame.CallUnary(ctx, req)
}

func (c *adminServiceClient) TogglePlayer(ctx context.Context, req *connect.Request[linetimerv1.TogglePlayerRequest]) (*connect.Response[linetimerv1.TogglePlayerResponse], error) {
	return c.togglePlayer.CallUnary(ctx, req)
}

func (c *adminServiceClient) AdjustScore(ctx context.Context, req *connect.Request[linetimerv1.AdjustScoreRequest]) (*connect.Response[linetimerv1.AdjustScoreResponse], error) {
	return c.adjustScore.CallUnary(ctx, req)
}
