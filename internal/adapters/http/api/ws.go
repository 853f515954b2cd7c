package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/okian/versus/internal/domain/types"
	"github.com/okian/versus/pkg/logger"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsReadLimit    = 4 << 10
)

// WebSocketHandler streams session views and accepts events over a
// websocket. Client frames are EventRequest JSON; server frames are
// PushMessage JSON.
type WebSocketHandler struct {
	deps   SessionDependencies
	logger logger.Logger
}

// NewWebSocketHandler creates a new websocket handler.
func NewWebSocketHandler(deps SessionDependencies, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{deps: deps, logger: log}
}

// HandleWebSocket handles GET /sessions/{id}/ws.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	const op = "api.ws"
	id := r.PathValue("id")

	// Subscribe before upgrading so unknown sessions get a plain 404.
	views, cancel, err := h.deps.Subscribe(r.Context(), id)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	defer cancel()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket accept failed", logger.String("session", id), logger.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(wsReadLimit)

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	rejected := make(chan string, 1)
	go h.readLoop(ctx, stop, conn, id, rejected)

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case v, ok := <-views:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			if err := h.write(ctx, conn, types.PushMessage{Type: types.PushView, View: &v}); err != nil {
				return
			}
		case msg := <-rejected:
			if err := h.write(ctx, conn, types.PushMessage{Type: types.PushError, Error: msg}); err != nil {
				return
			}
		}
	}
}

// readLoop submits client events until the connection fails. Views are
// delivered through the subscription, so only rejections are reported here.
func (h *WebSocketHandler) readLoop(ctx context.Context, stop context.CancelFunc, conn *websocket.Conn, id string, rejected chan<- string) {
	defer stop()
	for {
		var req types.EventRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				h.logger.Debug(ctx, "websocket read failed", logger.String("session", id), logger.Error(err))
			}
			return
		}
		if _, err := h.deps.Submit(ctx, id, req); err != nil {
			select {
			case rejected <- err.Error():
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(ctx context.Context, conn *websocket.Conn, msg types.PushMessage) error {
	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, msg)
}
