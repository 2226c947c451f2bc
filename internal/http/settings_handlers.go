package httpapi

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"videoadmin-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.Store.Settings())
}

// UpdateSettings merges the body over the stored settings one level deep;
// keys absent from the body survive, nested objects are replaced wholesale.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	merged, err := s.Store.MergeSettings(body)
	if err != nil {
		writeStoreError(w, err, "設定が見つかりません", "システム設定の更新に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, merged)
}

type SystemInfoResponse struct {
	Hostname   string                `json:"hostname"`
	GoVersion  string                `json:"goVersion"`
	NumCPU     int                   `json:"numCpu"`
	Uptime     string                `json:"uptime"`
	ServerTime time.Time             `json:"serverTime"`
	Metrics    services.MetricSample `json:"metrics"`
}

func (s *Server) SystemInfo(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()
	WriteJSON(w, http.StatusOK, SystemInfoResponse{
		Hostname:   hostname,
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
		ServerTime: time.Now().UTC(),
		Metrics:    services.CaptureMetrics(s.Config.MetricsDiskPath),
	})
}

func (s *Server) CreateBackup(w http.ResponseWriter, r *http.Request) {
	info, err := s.Store.CreateBackup()
	if err != nil {
		writeStoreError(w, err, "バックアップが見つかりません", "バックアップの作成に失敗しました")
		return
	}
	WriteJSON(w, http.StatusCreated, info)
}

func (s *Server) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := s.Store.ListBackups()
	if err != nil {
		writeStoreError(w, err, "バックアップが見つかりません", "バックアップ一覧の取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, backups)
}

func (s *Server) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.RestoreBackup(chi.URLParam(r, "backupId")); err != nil {
		writeStoreError(w, err, "バックアップが見つかりません", "バックアップのリストアに失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, s.Store.Settings())
}

func (s *Server) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteBackup(chi.URLParam(r, "backupId")); err != nil {
		writeStoreError(w, err, "バックアップが見つかりません", "バックアップの削除に失敗しました")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
