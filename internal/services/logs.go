package services

import (
	"sort"
	"strings"

	"videoadmin-backend-go/internal/models"
	"videoadmin-backend-go/internal/store"
)

// LogLevels and LogTypes are the values the filter dropdowns offer.
var (
	LogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	LogTypes  = []string{"system", "security", "application", "database", "api"}
)

type LogFilter struct {
	Level     string
	Type      string
	Search    string
	StartDate string
	EndDate   string
	Limit     int
}

// FilterLogs scans the system-logs collection, newest first. Search matches
// the message case-insensitively; date bounds compare the timestamp's day.
func FilterLogs(st *store.Store, filter LogFilter) []models.SystemLog {
	logs := decodeRecords[models.SystemLog](st.List("system-logs", nil))
	out := make([]models.SystemLog, 0, len(logs))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, entry := range logs {
		if filter.Level != "" && entry.Level != filter.Level {
			continue
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(entry.Message), search) {
			continue
		}
		day := dayOf(entry.Timestamp)
		if filter.StartDate != "" && day < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && day > filter.EndDate {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out
}

type LogStats struct {
	Total   int            `json:"total"`
	ByLevel map[string]int `json:"byLevel"`
	ByType  map[string]int `json:"byType"`
}

func LogStatistics(st *store.Store) LogStats {
	stats := LogStats{ByLevel: map[string]int{}, ByType: map[string]int{}}
	for _, entry := range decodeRecords[models.SystemLog](st.List("system-logs", nil)) {
		stats.Total++
		stats.ByLevel[entry.Level]++
		stats.ByType[entry.Type]++
	}
	return stats
}
