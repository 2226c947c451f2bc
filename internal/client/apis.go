package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"videoadmin-backend-go/internal/models"
	"videoadmin-backend-go/internal/services"
	"videoadmin-backend-go/internal/store"
)

// Typed façades over the shared client for the endpoints that do not fit
// the uniform CRUD shape.

type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login authenticates and moves the session into its authenticated state.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := a.c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return models.LoginResponse{}, err
	}
	if err := a.c.session.Set(out.Token, out.Username); err != nil {
		return models.LoginResponse{}, err
	}
	return out, nil
}

// Logout tears the session down regardless of whether the server call
// succeeded; locally held credentials must not survive a logout.
func (a *AuthAPI) Logout(ctx context.Context) error {
	err := a.c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if clearErr := a.c.session.Clear(); err == nil {
		err = clearErr
	}
	return err
}

type SettingsAPI struct {
	c *Client
}

func NewSettingsAPI(c *Client) *SettingsAPI {
	return &SettingsAPI{c: c}
}

func (s *SettingsAPI) Get(ctx context.Context) (store.Record, error) {
	out := store.Record{}
	err := s.c.do(ctx, http.MethodGet, "/settings", nil, nil, &out)
	return out, err
}

func (s *SettingsAPI) Update(ctx context.Context, partial store.Record) (store.Record, error) {
	out := store.Record{}
	err := s.c.do(ctx, http.MethodPut, "/settings", nil, partial, &out)
	return out, err
}

func (s *SettingsAPI) SystemInfo(ctx context.Context) (store.Record, error) {
	out := store.Record{}
	err := s.c.do(ctx, http.MethodGet, "/settings/system-info", nil, nil, &out)
	return out, err
}

func (s *SettingsAPI) CreateBackup(ctx context.Context) (store.BackupInfo, error) {
	var out store.BackupInfo
	err := s.c.do(ctx, http.MethodPost, "/settings/backup", nil, nil, &out)
	return out, err
}

func (s *SettingsAPI) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	var out []store.BackupInfo
	err := s.c.do(ctx, http.MethodGet, "/settings/backups", nil, nil, &out)
	return out, err
}

func (s *SettingsAPI) RestoreBackup(ctx context.Context, id string) (store.Record, error) {
	out := store.Record{}
	err := s.c.do(ctx, http.MethodPost, "/settings/restore/"+id, nil, nil, &out)
	return out, err
}

func (s *SettingsAPI) DeleteBackup(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/settings/backup/"+id, nil, nil, nil)
}

type ViewingRecordsAPI struct {
	c *Client
}

func NewViewingRecordsAPI(c *Client) *ViewingRecordsAPI {
	return &ViewingRecordsAPI{c: c}
}

func (v *ViewingRecordsAPI) List(ctx context.Context, filters map[string]string) ([]models.ViewingRecordSummary, error) {
	var out []models.ViewingRecordSummary
	err := v.c.do(ctx, http.MethodGet, "/viewing-records", toQuery(filters), nil, &out)
	return out, err
}

func (v *ViewingRecordsAPI) Get(ctx context.Context, id string) (services.ViewingRecordDetail, error) {
	var out services.ViewingRecordDetail
	err := v.c.do(ctx, http.MethodGet, "/viewing-records/"+id, nil, nil, &out)
	return out, err
}

func (v *ViewingRecordsAPI) Stats(ctx context.Context, filters map[string]string) (services.ViewingStats, error) {
	var out services.ViewingStats
	err := v.c.do(ctx, http.MethodGet, "/viewing-records/stats", toQuery(filters), nil, &out)
	return out, err
}

// Export fetches the CSV attachment as raw bytes (BOM included).
func (v *ViewingRecordsAPI) Export(ctx context.Context, filters map[string]string) ([]byte, error) {
	return v.c.doRaw(ctx, http.MethodGet, "/viewing-records/export", toQuery(filters), nil)
}

type SystemLogsAPI struct {
	c *Client
}

func NewSystemLogsAPI(c *Client) *SystemLogsAPI {
	return &SystemLogsAPI{c: c}
}

func (l *SystemLogsAPI) List(ctx context.Context, filters map[string]string) ([]models.SystemLog, error) {
	var out []models.SystemLog
	err := l.c.do(ctx, http.MethodGet, "/system-logs", toQuery(filters), nil, &out)
	return out, err
}

func (l *SystemLogsAPI) Get(ctx context.Context, id string) (models.SystemLog, error) {
	var out models.SystemLog
	err := l.c.do(ctx, http.MethodGet, "/system-logs/"+id, nil, nil, &out)
	return out, err
}

func (l *SystemLogsAPI) Delete(ctx context.Context, id string) error {
	return l.c.do(ctx, http.MethodDelete, "/system-logs/"+id, nil, nil, nil)
}

func (l *SystemLogsAPI) DeleteMany(ctx context.Context, ids []int64) error {
	body := map[string][]int64{"ids": ids}
	return l.c.do(ctx, http.MethodPost, "/system-logs/delete-multiple", nil, body, nil)
}

func (l *SystemLogsAPI) Clear(ctx context.Context, filters map[string]string) error {
	body := map[string]string{}
	for key, value := range filters {
		body[key] = value
	}
	return l.c.do(ctx, http.MethodPost, "/system-logs/clear", nil, body, nil)
}

func (l *SystemLogsAPI) Stats(ctx context.Context) (services.LogStats, error) {
	var out services.LogStats
	err := l.c.do(ctx, http.MethodGet, "/system-logs/stats", nil, nil, &out)
	return out, err
}

func (l *SystemLogsAPI) Levels(ctx context.Context) ([]string, error) {
	var out []string
	err := l.c.do(ctx, http.MethodGet, "/system-logs/levels", nil, nil, &out)
	return out, err
}

func (l *SystemLogsAPI) Types(ctx context.Context) ([]string, error) {
	var out []string
	err := l.c.do(ctx, http.MethodGet, "/system-logs/types", nil, nil, &out)
	return out, err
}

type AnalyticsAPI struct {
	c *Client
}

func NewAnalyticsAPI(c *Client) *AnalyticsAPI {
	return &AnalyticsAPI{c: c}
}

func (a *AnalyticsAPI) Overview(ctx context.Context) (services.AnalyticsOverview, error) {
	var out services.AnalyticsOverview
	err := a.c.do(ctx, http.MethodGet, "/analytics/overview", nil, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) Trends(ctx context.Context) ([]services.TrendPoint, error) {
	var out []services.TrendPoint
	err := a.c.do(ctx, http.MethodGet, "/analytics/trends", nil, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) Categories(ctx context.Context) ([]services.CategorySlice, error) {
	var out []services.CategorySlice
	err := a.c.do(ctx, http.MethodGet, "/analytics/categories", nil, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) Popular(ctx context.Context, limit int) ([]services.PopularVideo, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []services.PopularVideo
	err := a.c.do(ctx, http.MethodGet, "/analytics/popular", query, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) Activity(ctx context.Context) ([]services.UserActivity, error) {
	var out []services.UserActivity
	err := a.c.do(ctx, http.MethodGet, "/analytics/activity", nil, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) Range(ctx context.Context, startDate, endDate string) (services.RangeSummary, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	var out services.RangeSummary
	err := a.c.do(ctx, http.MethodGet, "/analytics/range", query, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) User(ctx context.Context, userID int64) (services.UserAnalytics, error) {
	var out services.UserAnalytics
	err := a.c.do(ctx, http.MethodGet, "/analytics/users/"+strconv.FormatInt(userID, 10), nil, nil, &out)
	return out, err
}

func (a *AnalyticsAPI) Video(ctx context.Context, videoID int64) (services.VideoAnalytics, error) {
	var out services.VideoAnalytics
	err := a.c.do(ctx, http.MethodGet, "/analytics/videos/"+strconv.FormatInt(videoID, 10), nil, nil, &out)
	return out, err
}

// UserStatusAPI-style extras hang off the users resource path.

type UsersAPI struct {
	*Resource[models.User]
	c *Client
}

func NewUsersAPI(c *Client) *UsersAPI {
	return &UsersAPI{Resource: NewResource[models.User](c, "users"), c: c}
}

func (u *UsersAPI) UpdateStatus(ctx context.Context, id, status string) (models.User, error) {
	var out models.User
	err := u.c.do(ctx, http.MethodPatch, "/users/"+id+"/status", nil, map[string]string{"status": status}, &out)
	return out, err
}

func (u *UsersAPI) UpdateRole(ctx context.Context, id, role string) (models.User, error) {
	var out models.User
	err := u.c.do(ctx, http.MethodPatch, "/users/"+id+"/role", nil, map[string]string{"role": role}, &out)
	return out, err
}

func (u *UsersAPI) ResetPassword(ctx context.Context, id string) error {
	return u.c.do(ctx, http.MethodPost, "/users/"+id+"/reset-password", nil, nil, nil)
}
