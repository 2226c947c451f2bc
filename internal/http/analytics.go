package httpapi

import (
	"net/http"
	"strconv"

	"videoadmin-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.Overview(s.Store))
}

func (s *Server) AnalyticsTrends(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.ViewingTrends(s.Store))
}

func (s *Server) AnalyticsCategories(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.CategoryDistribution(s.Store))
}

func (s *Server) AnalyticsPopular(w http.ResponseWriter, r *http.Request) {
	limit := parseIntOr(r.URL.Query().Get("limit"), 5)
	WriteJSON(w, http.StatusOK, services.PopularVideos(s.Store, limit))
}

func (s *Server) AnalyticsActivity(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, services.ActivityByUser(s.Store))
}

func (s *Server) AnalyticsRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	summary, err := services.RangeAnalytics(s.Store, query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		writeStoreError(w, err, "リソースが見つかりません", "分析データの取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) AnalyticsUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	analytics, err := services.AnalyticsForUser(s.Store, userID)
	if err != nil {
		writeStoreError(w, err, "ユーザーが見つかりません", "分析データの取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, analytics)
}

func (s *Server) AnalyticsVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "videoId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	analytics, err := services.AnalyticsForVideo(s.Store, videoID)
	if err != nil {
		writeStoreError(w, err, "動画が見つかりません", "分析データの取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, analytics)
}
