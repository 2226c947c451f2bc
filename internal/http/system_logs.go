package httpapi

import (
	"encoding/json"
	"net/http"

	"videoadmin-backend-go/internal/services"
	"videoadmin-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

const logsKey = "system-logs"

func logFilter(r *http.Request) services.LogFilter {
	query := r.URL.Query()
	return services.LogFilter{
		Level:     query.Get("level"),
		Type:      query.Get("type"),
		Search:    query.Get("search"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Limit:     parseIntOr(query.Get("limit"), 0),
	}
}

func (s *Server) ListSystemLogs(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.FilterLogs(s.Store, logFilter(r)))
}

func (s *Server) GetSystemLog(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Get(logsKey, chi.URLParam(r, "logId"))
	if err != nil {
		writeStoreError(w, err, "ログが見つかりません", "ログの取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) DeleteSystemLog(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(logsKey, chi.URLParam(r, "logId")); err != nil {
		writeStoreError(w, err, "ログが見つかりません", "ログの削除に失敗しました")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type DeleteLogsRequest struct {
	IDs []json.Number `json:"ids"`
}

// DeleteSystemLogs removes a batch of logs; ids that no longer exist are
// skipped rather than failing the whole batch.
func (s *Server) DeleteSystemLogs(w http.ResponseWriter, r *http.Request) {
	var req DeleteLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	deleted := 0
	for _, id := range req.IDs {
		if err := s.Store.Delete(logsKey, id.String()); err == nil {
			deleted++
		}
	}
	WriteJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// ClearSystemLogs drops every log matching the posted filter criteria; an
// empty body clears everything.
func (s *Server) ClearSystemLogs(w http.ResponseWriter, r *http.Request) {
	filter := services.LogFilter{}
	if r.Body != nil {
		body := store.Record{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			if level, ok := body["level"].(string); ok {
				filter.Level = level
			}
			if logType, ok := body["type"].(string); ok {
				filter.Type = logType
			}
		}
	}
	cleared := 0
	for _, entry := range services.FilterLogs(s.Store, filter) {
		if err := s.Store.Delete(logsKey, formatID(entry.ID)); err == nil {
			cleared++
		}
	}
	WriteJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) SystemLogStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.LogStatistics(s.Store))
}

func (s *Server) SystemLogLevels(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.LogLevels)
}

func (s *Server) SystemLogTypes(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.LogTypes)
}
