package progress

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/homorunner/ASG-benchmark/internal/bench"
	"github.com/homorunner/ASG-benchmark/internal/game"
	"github.com/homorunner/ASG-benchmark/pkg/benchdto"
)

func TestHub_BroadcastsScoreEvents(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the server a moment to register the subscription.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.subs)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hook := hub.ScoreHook()
	hook(3, bench.PuzzleScore{
		PuzzleID: "p3", GameType: game.Chess,
		StepsSolved: 1, MaxSteps: 2, Score: 1,
	})

	var ev benchdto.ScoreEvent
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Index != 3 || ev.PuzzleID != "p3" || ev.GameType != "chess" || ev.StepsSolved != 1 || ev.MaxSteps != 2 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)
	// Must not block or panic.
	hub.Publish(benchdto.ScoreEvent{PuzzleID: "p0"})
}
