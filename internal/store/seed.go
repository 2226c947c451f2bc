package store

import (
	"encoding/json"

	"videoadmin-backend-go/internal/models"
)

// SeedDocument builds the initial database used when no db.json exists yet.
// The admin account matches the credentials the dashboard ships with.
func SeedDocument() map[string]any {
	users := []models.User{
		{ID: 1, Username: "管理者", Email: "admin@example.com", Password: "password", Role: "admin", Status: "active", LastLogin: "2024-05-01T09:00:00Z"},
		{ID: 2, Username: "田中太郎", Email: "tanaka@example.com", Password: "password", Role: "user", Status: "active", LastLogin: "2024-05-02T12:30:00Z"},
		{ID: 3, Username: "佐藤花子", Email: "sato@example.com", Password: "password", Role: "user", Status: "inactive"},
	}
	videos := []models.Video{
		{ID: 1, Title: "Go入門 第1回", Description: "環境構築と最初のプログラム", Category: "プログラミング", Tags: []string{"go", "初級"}, IsPublic: true, Views: 1280, UploadDate: "2024-04-01T10:00:00Z"},
		{ID: 2, Title: "Go入門 第2回", Description: "型と関数", Category: "プログラミング", Tags: []string{"go", "初級"}, IsPublic: true, Views: 960, UploadDate: "2024-04-08T10:00:00Z"},
		{ID: 3, Title: "統計学の基礎", Description: "記述統計から推測統計まで", Category: "数学", Tags: []string{"統計", "中級"}, IsPublic: false, Views: 430, UploadDate: "2024-04-15T10:00:00Z"},
	}
	categories := []models.Category{
		{ID: 1, Name: "プログラミング", Description: "開発・コーディング関連", Color: "#1976d2"},
		{ID: 2, Name: "数学", Description: "数学・統計の講義", Color: "#388e3c"},
	}
	tags := []models.Tag{
		{ID: 1, Name: "go", Description: "Go言語", Color: "#00add8", UsageCount: 2},
		{ID: 2, Name: "初級", Description: "入門レベル", Color: "#fbc02d", UsageCount: 2},
		{ID: 3, Name: "統計", Description: "統計学", Color: "#7b1fa2", UsageCount: 1},
		{ID: 4, Name: "中級", Description: "中級レベル", Color: "#e64a19", UsageCount: 1},
	}
	templates := []models.EmailTemplate{
		{ID: 1, Name: "ウェルカムメール", Subject: "{{username}}さん、ようこそ", Body: "{{username}}さん\n\nご登録ありがとうございます。", Type: "welcome", Variables: []string{"username"}},
		{ID: 2, Name: "パスワードリセット", Subject: "パスワード再設定のご案内", Body: "{{username}}さん\n\n以下のリンクから再設定してください: {{resetLink}}", Type: "password_reset", Variables: []string{"username", "resetLink"}},
	}
	logs := []models.SystemLog{
		{ID: 1, Timestamp: "2024-05-01T09:00:05Z", Level: "info", Type: "security", Message: "管理者がログインしました", User: "admin@example.com", IPAddress: "127.0.0.1"},
		{ID: 2, Timestamp: "2024-05-01T09:15:00Z", Level: "warn", Type: "system", Message: "ディスク使用率が80%を超えました"},
		{ID: 3, Timestamp: "2024-05-02T03:00:00Z", Level: "error", Type: "database", Message: "バックアップジョブが失敗しました", Details: "timeout after 30s"},
	}
	records := []models.ViewingRecord{
		{ID: 1, UserID: 2, VideoID: 1, StartTime: "2024-05-02T12:00:00Z", EndTime: "2024-05-02T12:20:00Z", WatchTime: 1200, Progress: 100, Completed: true, LastPosition: 1200},
		{ID: 2, UserID: 2, VideoID: 2, StartTime: "2024-05-02T12:30:00Z", EndTime: "2024-05-02T12:40:00Z", WatchTime: 600, Progress: 48.5, Completed: false, LastPosition: 600},
		{ID: 3, UserID: 3, VideoID: 1, StartTime: "2024-05-03T08:00:00Z", EndTime: "2024-05-03T08:05:00Z", WatchTime: 300, Progress: 25, Completed: false, LastPosition: 300},
	}
	settings := map[string]any{
		"siteName":          "動画学習プラットフォーム",
		"maintenanceMode":   false,
		"maxUploadSizeMB":   512,
		"defaultLanguage":   "ja",
		"sessionTimeout":    3600,
		"supportEmail":      "support@example.com",
		"allowRegistration": true,
	}
	return map[string]any{
		"users":           toRecords(users),
		"videos":          toRecords(videos),
		"categories":      toRecords(categories),
		"tags":            toRecords(tags),
		"email-templates": toRecords(templates),
		"system-logs":     toRecords(logs),
		"viewing_records": toRecords(records),
		"settings":        settings,
	}
}

func toRecords[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		rec := Record{}
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		out = append(out, any(rec))
	}
	return out
}
