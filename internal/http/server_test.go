package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"videoadmin-backend-go/internal/config"
	"videoadmin-backend-go/internal/services"
	"videoadmin-backend-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminToken = "dummy-token-1"

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "db.json"), filepath.Join(dir, "backups"))
	require.NoError(t, err)
	cfg := config.Config{
		MockPassword:       "password",
		LoginRatePerMinute: 100,
		MetricsDiskPath:    dir,
	}
	srv := NewServer(st, cfg, zap.NewNop(), services.NewMetricsHub(), services.NewMetricsRing(10))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, raw
}

func decodeInto(t *testing.T, raw []byte, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestLoginIssuesDummyToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	decodeInto(t, raw, &payload)
	assert.Equal(t, "dummy-token-1", payload["token"])
	assert.Equal(t, "管理者", payload["username"])
	assert.Equal(t, "admin", payload["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var payload ErrorResponse
	decodeInto(t, raw, &payload)
	assert.Equal(t, "メールアドレスまたはパスワードが正しくありません", payload.Error)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	ts, st := newTestServer(t)

	before, err := st.Get("users", "2")
	require.NoError(t, err)
	resp, _ := doRequest(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "tanaka@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after, err := st.Get("users", "2")
	require.NoError(t, err)
	assert.NotEqual(t, before["lastLogin"], after["lastLogin"])
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, token := range []string{"", "not-a-dummy-token", "dummy-token-9999"} {
		resp, raw := doRequest(t, ts, http.MethodGet, "/api/users", token, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token %q", token)
		var payload ErrorResponse
		decodeInto(t, raw, &payload)
		assert.Equal(t, "認証が必要です", payload.Error)
	}
}

func TestGenericResourceCRUD(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodPost, "/api/categories", adminToken, map[string]any{
		"name": "語学", "description": "外国語の講義",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeInto(t, raw, &created)
	require.NotNil(t, created["id"])
	id := fmt.Sprintf("%.0f", created["id"].(float64))

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/categories/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doRequest(t, ts, http.MethodPut, "/api/categories/"+id, adminToken, map[string]any{
		"description": "語学全般",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	decodeInto(t, raw, &updated)
	assert.Equal(t, "語学", updated["name"], "merge keeps untouched keys")
	assert.Equal(t, "語学全般", updated["description"])

	resp, _ = doRequest(t, ts, http.MethodDelete, "/api/categories/"+id, adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/categories/"+id, adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload ErrorResponse
	decodeInto(t, raw, &payload)
	assert.Equal(t, "リソースが見つかりません", payload.Error)
}

func TestGenericListFiltersByQuery(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/users?role=user", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]any
	decodeInto(t, raw, &users)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Equal(t, "user", user["role"])
	}
}

func TestEmailTemplateCRUD(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/email-templates", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var templates []map[string]any
	decodeInto(t, raw, &templates)
	require.Len(t, templates, 2)

	resp, raw = doRequest(t, ts, http.MethodPost, "/api/email-templates", adminToken, map[string]any{
		"name": "退会のお知らせ", "subject": "ご利用ありがとうございました", "body": "{{username}}さん",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeInto(t, raw, &created)
	assert.EqualValues(t, 3, created["id"])

	resp, raw = doRequest(t, ts, http.MethodPut, "/api/email-templates/3", adminToken, map[string]any{
		"subject": "またのご利用をお待ちしています",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	decodeInto(t, raw, &updated)
	assert.Equal(t, "退会のお知らせ", updated["name"])

	resp, _ = doRequest(t, ts, http.MethodDelete, "/api/email-templates/3", adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/email-templates/3", adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload ErrorResponse
	decodeInto(t, raw, &payload)
	assert.Equal(t, "テンプレートが見つかりません", payload.Error)
}

func TestSettingsShallowMerge(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodPut, "/api/settings", adminToken, map[string]any{
		"maintenanceMode": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var merged map[string]any
	decodeInto(t, raw, &merged)
	assert.Equal(t, true, merged["maintenanceMode"])
	assert.Equal(t, "動画学習プラットフォーム", merged["siteName"], "untouched keys survive")

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/settings", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched map[string]any
	decodeInto(t, raw, &fetched)
	assert.Equal(t, true, fetched["maintenanceMode"])
}

func TestViewingRecordsJoinUserAndVideoNames(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/viewing-records", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []map[string]any
	decodeInto(t, raw, &records)
	require.Len(t, records, 3)
	assert.Equal(t, "田中太郎", records[0]["userName"])
	assert.Equal(t, "Go入門 第1回", records[0]["videoTitle"])

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/viewing-records?userId=2", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, raw, &records)
	assert.Len(t, records, 2)
}

func TestViewingRecordsDanglingReferenceUsesSentinel(t *testing.T) {
	ts, st := newTestServer(t)
	require.NoError(t, st.Delete("users", "3"))

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/viewing-records?userId=3", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []map[string]any
	decodeInto(t, raw, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "不明", records[0]["userName"])
}

func TestExportViewingRecordsCSV(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/viewing-records/export", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "viewing-records.csv")

	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "UTF-8 BOM prefix")
	lines := strings.Split(string(raw[3:]), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID,ユーザー名,動画タイトル,視聴開始時間,視聴終了時間,視聴時間（秒）,進捗率（%）,完了状態", lines[0])
	assert.Equal(t, "1,田中太郎,Go入門 第1回,2024-05-02T12:00:00Z,2024-05-02T12:20:00Z,1200,100,完了", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",49,未完了"), "progress rounds to whole percent: %s", lines[2])
}

func TestViewingRecordStats(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/viewing-records/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]any
	decodeInto(t, raw, &stats)
	assert.EqualValues(t, 3, stats["totalRecords"])
	assert.EqualValues(t, 2100, stats["totalWatchTime"])
	assert.EqualValues(t, 1, stats["completedCount"])
}

func TestSystemLogsFilterAndBatchDelete(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/system-logs?level=error", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []map[string]any
	decodeInto(t, raw, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "error", logs[0]["level"])

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/system-logs?search=ログイン", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, raw, &logs)
	require.Len(t, logs, 1)

	resp, raw = doRequest(t, ts, http.MethodPost, "/api/system-logs/delete-multiple", adminToken, map[string]any{
		"ids": []int{1, 2, 999},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]int
	decodeInto(t, raw, &result)
	assert.Equal(t, 2, result["deleted"], "missing ids are skipped")

	resp, raw = doRequest(t, ts, http.MethodPost, "/api/system-logs/clear", adminToken, map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, raw, &result)
	assert.Equal(t, 1, result["cleared"])
}

func TestSystemLogStatsAndEnums(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/system-logs/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]any
	decodeInto(t, raw, &stats)
	assert.EqualValues(t, 3, stats["total"])

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/system-logs/levels", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var levels []string
	decodeInto(t, raw, &levels)
	assert.Contains(t, levels, "error")
}

func TestUserStatusAndRolePatches(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodPatch, "/api/users/2/status", adminToken, map[string]string{"status": "suspended"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	decodeInto(t, raw, &updated)
	assert.Equal(t, "suspended", updated["status"])
	assert.Equal(t, "田中太郎", updated["username"], "other fields untouched")

	resp, raw = doRequest(t, ts, http.MethodPatch, "/api/users/2/role", adminToken, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, raw, &updated)
	assert.Equal(t, "admin", updated["role"])

	resp, _ = doRequest(t, ts, http.MethodPatch, "/api/users/2/status", adminToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPatch, "/api/users/999/status", adminToken, map[string]string{"status": "active"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResetUserPassword(t *testing.T) {
	ts, st := newTestServer(t)

	_, err := st.Update("users", "2", store.Record{"password": "changed"})
	require.NoError(t, err)

	resp, raw := doRequest(t, ts, http.MethodPost, "/api/users/2/reset-password", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]string
	decodeInto(t, raw, &result)
	assert.Equal(t, "reset", result["status"])

	user, err := st.Get("users", "2")
	require.NoError(t, err)
	assert.Equal(t, "password", user["password"])
}

func TestGetViewingRecordDetail(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/viewing-records/1", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail map[string]any
	decodeInto(t, raw, &detail)
	assert.Equal(t, "田中太郎", detail["userName"])
	assert.Equal(t, "Go入門 第1回", detail["videoTitle"])
	assert.EqualValues(t, 1200, detail["watchTime"])

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/viewing-records/999", adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload ErrorResponse
	decodeInto(t, raw, &payload)
	assert.Equal(t, "視聴記録が見つかりません", payload.Error)
}

func TestAnalyticsUserAndVideoNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/analytics/users/2", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analytics map[string]any
	decodeInto(t, raw, &analytics)
	assert.Equal(t, "田中太郎", analytics["userName"])
	assert.EqualValues(t, 2, analytics["sessions"])

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/analytics/users/999", adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload ErrorResponse
	decodeInto(t, raw, &payload)
	assert.Equal(t, "ユーザーが見つかりません", payload.Error)

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/analytics/videos/999", adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	decodeInto(t, raw, &payload)
	assert.Equal(t, "動画が見つかりません", payload.Error)
}

func TestAnalyticsRangeValidatesDates(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/analytics/range?startDate=2024-05-02&endDate=2024-05-02", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary map[string]any
	decodeInto(t, raw, &summary)
	assert.EqualValues(t, 2, summary["views"])

	resp, raw = doRequest(t, ts, http.MethodGet, "/api/analytics/range?startDate=not-a-date", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var payload ErrorResponse
	decodeInto(t, raw, &payload)
	assert.Equal(t, "日付の形式が正しくありません", payload.Error)
}

func TestAnalyticsOverview(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/analytics/overview", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var overview map[string]any
	decodeInto(t, raw, &overview)
	assert.EqualValues(t, 3, overview["totalUsers"])
	assert.EqualValues(t, 2, overview["activeUsers"])
	assert.EqualValues(t, 3, overview["totalVideos"])
	assert.EqualValues(t, 2, overview["publicVideos"])
	assert.EqualValues(t, 2670, overview["totalViews"])
}

func TestAnalyticsTrendsSortedByDate(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/analytics/trends", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var trends []map[string]any
	decodeInto(t, raw, &trends)
	require.Len(t, trends, 2)
	assert.Equal(t, "2024-05-02", trends[0]["date"])
	assert.EqualValues(t, 2, trends[0]["views"])
	assert.Equal(t, "2024-05-03", trends[1]["date"])
}

func TestSettingsBackupLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodPost, "/api/settings/backup", adminToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info map[string]any
	decodeInto(t, raw, &info)
	id, _ := info["id"].(string)
	require.NotEmpty(t, id)

	resp, _ = doRequest(t, ts, http.MethodPut, "/api/settings", adminToken, map[string]any{"siteName": "変更後"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doRequest(t, ts, http.MethodPost, "/api/settings/restore/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var restored map[string]any
	decodeInto(t, raw, &restored)
	assert.Equal(t, "動画学習プラットフォーム", restored["siteName"])

	resp, _ = doRequest(t, ts, http.MethodDelete, "/api/settings/backup/"+id, adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPost, "/api/settings/restore/"+id, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsHistoryEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doRequest(t, ts, http.MethodGet, "/api/system-metrics/history", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload map[string]any
	decodeInto(t, raw, &payload)
	_, ok := payload["items"]
	assert.True(t, ok)
}
