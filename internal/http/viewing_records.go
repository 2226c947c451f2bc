package httpapi

import (
	"net/http"

	"videoadmin-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func viewingFilters(r *http.Request) map[string]string {
	filters := map[string]string{}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		filters["userId"] = userID
	}
	if videoID := r.URL.Query().Get("videoId"); videoID != "" {
		filters["videoId"] = videoID
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func (s *Server) ListViewingRecords(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.ViewingSummaries(s.Store, viewingFilters(r)))
}

func (s *Server) GetViewingRecord(w http.ResponseWriter, r *http.Request) {
	detail, err := services.ViewingDetail(s.Store, chi.URLParam(r, "recordId"))
	if err != nil {
		writeStoreError(w, err, "視聴記録が見つかりません", "視聴記録の取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) ViewingRecordStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.ViewingStatistics(s.Store, viewingFilters(r)))
}

// ExportViewingRecords streams the joined records as a BOM-prefixed CSV
// attachment, the exact bytes the dashboard's download button expects.
func (s *Server) ExportViewingRecords(w http.ResponseWriter, r *http.Request) {
	payload := services.ExportViewingCSV(s.Store, viewingFilters(r))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="viewing-records.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
