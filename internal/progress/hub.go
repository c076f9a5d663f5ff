package progress

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/homorunner/ASG-benchmark/internal/bench"
	"github.com/homorunner/ASG-benchmark/pkg/benchdto"
)

// Hub broadcasts per-puzzle score events to websocket subscribers so a long
// LLM run can be watched live. Subscribers joining mid-run only see events
// from that point on; slow or dead subscribers are dropped, never waited on.
type Hub struct {
	logger *zap.Logger

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, subs: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request and keeps the subscription open until the
// client disconnects. The hub only pushes; inbound frames are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	ctx := conn.CloseRead(r.Context())

	h.mu.Lock()
	h.subs[conn] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.logger.Info("progress subscriber connected", zap.Int("subscribers", n))

	<-ctx.Done()

	h.drop(conn)
	conn.Close(websocket.StatusNormalClosure, "")
}

// ScoreHook adapts the hub to the runner's per-puzzle callback.
func (h *Hub) ScoreHook() func(index int, score bench.PuzzleScore) {
	return func(index int, score bench.PuzzleScore) {
		h.Publish(benchdto.ScoreEvent{
			Index:       index,
			PuzzleID:    score.PuzzleID,
			GameType:    string(score.GameType),
			StepsSolved: score.StepsSolved,
			MaxSteps:    score.MaxSteps,
			Score:       score.Score,
			SolvedFully: score.SolvedFully,
		})
	}
}

// Publish sends an event to every subscriber. Write failures drop the
// subscriber.
func (h *Hub) Publish(ev benchdto.ScoreEvent) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := wsjson.Write(ctx, c, ev)
		cancel()
		if err != nil {
			h.logger.Warn("progress write failed, dropping subscriber", zap.Error(err))
			h.drop(c)
			c.Close(websocket.StatusPolicyViolation, "write timeout")
		}
	}
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.subs = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.Close(websocket.StatusNormalClosure, "benchmark finished")
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subs, conn)
	h.mu.Unlock()
}
