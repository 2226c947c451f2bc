package httpapi

import (
	"net/http"
	"strings"

	"videoadmin-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

type MetricsHistoryResponse struct {
	Items []services.MetricSample `json:"items"`
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntOr(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	WriteJSON(w, http.StatusOK, MetricsHistoryResponse{Items: s.MetricsRing.Latest(limit)})
}

// SystemSocket upgrades to a WebSocket that receives every metric sample
// the sampling loop broadcasts. Browsers cannot set headers on a socket
// handshake, so the token rides the query string.
func (s *Server) SystemSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if !strings.HasPrefix(token, tokenPrefix) {
		WriteError(w, http.StatusUnauthorized, "認証が必要です")
		return
	}
	if _, err := s.Store.Get("users", strings.TrimPrefix(token, tokenPrefix)); err != nil {
		WriteError(w, http.StatusUnauthorized, "認証が必要です")
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.MetricsHub.Add(conn)
	defer func() {
		s.MetricsHub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
