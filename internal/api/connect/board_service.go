package connect

import (
	"context"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	linetimerv1 "github.com/osa030/linetimer/internal/api/linetimerv1"
	"github.com/osa030/linetimer/internal/api/linetimerv1/linetimerv1connect"
	"github.com/osa030/linetimer/internal/app/session"
	"github.com/osa030/linetimer/internal/domain/game"
)

// BoardService implements the public BoardService RPC.
type BoardService struct {
	session *session.Manager
}

// NewBoardService creates a new BoardService.
func NewBoardService(session *session.Manager) *BoardService {
	return &BoardService{session: session}
}

// Ensure BoardService implements the interface.
var _ linetimerv1connect.BoardServiceHandler = (*BoardService)(nil)

// GetBoard returns the current board.
func (s *BoardService) GetBoard(
	ctx context.Context,
	req *connect.Request[linetimerv1.GetBoardRequest],
) (*connect.Response[linetimerv1.GetBoardResponse], error) {
	return connect.NewResponse(&linetimerv1.GetBoardResponse{
		Board: s.session.Board(),
	}), nil
}

// Watch sends the current board, then every later broadcast until the
// client leaves or the session closes.
func (s *BoardService) Watch(
	ctx context.Context,
	req *connect.Request[linetimerv1.WatchRequest],
	stream *connect.ServerStream[linetimerv1.WatchResponse],
) error {
	watcher := newBoardWatcher(watchBuffer)
	subscriptionID, initial := s.session.Subscribe(watcher)
	zlog.Debug().Msgf("board watcher subscribed: subscription_id=%s", subscriptionID)

	defer func() {
		watcher.close()
		s.session.Unsubscribe(subscriptionID)
		zlog.Debug().Msgf("board watcher left: subscription_id=%s", subscriptionID)
	}()

	if err := stream.Send(&linetimerv1.WatchResponse{Initial: true, Board: initial}); err != nil {
		return err
	}
	lastSeq := initial.SequenceNo

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.session.Done():
			return nil
		case <-watcher.done:
			return connect.NewError(connect.CodeResourceExhausted, errWatcherSlow)
		case board := <-watcher.boards:
			if board.SequenceNo <= lastSeq {
				continue
			}
			if err := stream.Send(&linetimerv1.WatchResponse{Board: board}); err != nil {
				return err
			}
			lastSeq = board.SequenceNo
		}
	}
}

// watchBuffer is how many boards a watcher may fall behind before it is
// dropped.
const watchBuffer = 32

var (
	errWatcherClosed = errors.New("board watcher closed")
	errWatcherSlow   = errors.New("board watcher buffer full")
)

// boardWatcher queues broadcasts for the Watch goroutine, which is the only
// writer on the stream.
type boardWatcher struct {
	boards chan *game.Board
	done   chan struct{}
	once   sync.Once
}

func newBoardWatcher(buffer int) *boardWatcher {
	if buffer < 1 {
		buffer = 1
	}
	return &boardWatcher{
		boards: make(chan *game.Board, buffer),
		done:   make(chan struct{}),
	}
}

// Send implements notification.Stream. It never blocks; a full buffer
// closes the watcher so Watch ends the stream.
func (w *boardWatcher) Send(board *game.Board) error {
	select {
	case <-w.done:
		return errWatcherClosed
	default:
	}

	select {
	case w.boards <- board:
		return nil
	default:
		w.close()
		return errWatcherSlow
	}
}

func (w *boardWatcher) close() {
	w.once.Do(func() { close(w.done) })
}
