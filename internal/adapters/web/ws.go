package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	httpinfra "vision-app/internal/infra/http"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// handleUpdates стримит события локального состояния по вебсокету.
// Токен передаётся query-параметром: браузерный WebSocket не умеет
// выставлять заголовок Authorization.
func (h *Handler) handleUpdates(w http.ResponseWriter, r *http.Request) {
	userID, err := httpinfra.ParseSessionToken(h.secret, r.URL.Query().Get("token"))
	if err != nil {
		httpinfra.WriteError(w, http.StatusUnauthorized, err)
		return
	}
	if user, ok := h.store.SessionUser(); !ok || user.ID != userID {
		httpinfra.WriteError(w, http.StatusUnauthorized, httpinfra.ErrBadToken)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("не удалось открыть вебсокет")
		return
	}
	defer conn.Close()

	events, unsubscribe := h.store.Subscribe()
	defer unsubscribe()

	// Читатель нужен только чтобы заметить закрытие со стороны клиента.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
