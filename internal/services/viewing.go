package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"videoadmin-backend-go/internal/models"
	"videoadmin-backend-go/internal/store"
)

// UnknownName is substituted when a viewing record references a user or
// video that no longer exists in the document.
const UnknownName = "不明"

const csvHeader = "ID,ユーザー名,動画タイトル,視聴開始時間,視聴終了時間,視聴時間（秒）,進捗率（%）,完了状態"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeRecords[T any](recs []store.Record) []T {
	raw, err := json.Marshal(recs)
	if err != nil {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func userNames(st *store.Store) map[int64]string {
	names := map[int64]string{}
	for _, user := range decodeRecords[models.User](st.List("users", nil)) {
		names[user.ID] = user.Username
	}
	return names
}

func videoTitles(st *store.Store) map[int64]string {
	titles := map[int64]string{}
	for _, video := range decodeRecords[models.Video](st.List("videos", nil)) {
		titles[video.ID] = video.Title
	}
	return titles
}

func nameOr(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return UnknownName
}

// ViewingSummaries joins viewing records against users and videos the way
// the listing screen displays them.
func ViewingSummaries(st *store.Store, filters map[string]string) []models.ViewingRecordSummary {
	users := userNames(st)
	videos := videoTitles(st)
	records := decodeRecords[models.ViewingRecord](st.List("viewing_records", filters))
	out := make([]models.ViewingRecordSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, models.ViewingRecordSummary{
			ID:           rec.ID,
			UserName:     nameOr(users, rec.UserID),
			VideoTitle:   nameOr(videos, rec.VideoID),
			WatchTime:    rec.WatchTime,
			Progress:     rec.Progress,
			Completed:    rec.Completed,
			LastViewedAt: rec.EndTime,
		})
	}
	return out
}

// ViewingRecordDetail is the single-record view with display names joined
// in alongside the raw fields.
type ViewingRecordDetail struct {
	models.ViewingRecord
	UserName   string `json:"userName"`
	VideoTitle string `json:"videoTitle"`
}

func ViewingDetail(st *store.Store, id string) (ViewingRecordDetail, error) {
	rec, err := st.Get("viewing_records", id)
	if err != nil {
		return ViewingRecordDetail{}, ErrNotFound("視聴記録が見つかりません")
	}
	records := decodeRecords[models.ViewingRecord]([]store.Record{rec})
	if len(records) == 0 {
		return ViewingRecordDetail{}, ErrNotFound("視聴記録が見つかりません")
	}
	record := records[0]
	return ViewingRecordDetail{
		ViewingRecord: record,
		UserName:      nameOr(userNames(st), record.UserID),
		VideoTitle:    nameOr(videoTitles(st), record.VideoID),
	}, nil
}

type ViewingStats struct {
	TotalRecords   int     `json:"totalRecords"`
	TotalWatchTime int64   `json:"totalWatchTime"`
	AvgProgress    float64 `json:"averageProgress"`
	CompletedCount int     `json:"completedCount"`
	CompletionRate float64 `json:"completionRate"`
}

func ViewingStatistics(st *store.Store, filters map[string]string) ViewingStats {
	records := decodeRecords[models.ViewingRecord](st.List("viewing_records", filters))
	stats := ViewingStats{TotalRecords: len(records)}
	if len(records) == 0 {
		return stats
	}
	var progressSum float64
	for _, rec := range records {
		stats.TotalWatchTime += rec.WatchTime
		progressSum += rec.Progress
		if rec.Completed {
			stats.CompletedCount++
		}
	}
	stats.AvgProgress = progressSum / float64(len(records))
	stats.CompletionRate = float64(stats.CompletedCount) / float64(len(records))
	return stats
}

// ExportViewingCSV renders the records as the CSV attachment the dashboard
// downloads: UTF-8 BOM, Japanese header, bare comma-joined fields exactly
// as the document stores them.
func ExportViewingCSV(st *store.Store, filters map[string]string) []byte {
	users := userNames(st)
	videos := videoTitles(st)
	records := decodeRecords[models.ViewingRecord](st.List("viewing_records", filters))

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	buf.WriteString(csvHeader)
	buf.WriteByte('\n')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte('\n')
		}
		completed := "未完了"
		if rec.Completed {
			completed = "完了"
		}
		buf.WriteString(strconv.FormatInt(rec.ID, 10))
		buf.WriteByte(',')
		buf.WriteString(nameOr(users, rec.UserID))
		buf.WriteByte(',')
		buf.WriteString(nameOr(videos, rec.VideoID))
		buf.WriteByte(',')
		buf.WriteString(rec.StartTime)
		buf.WriteByte(',')
		buf.WriteString(rec.EndTime)
		buf.WriteByte(',')
		buf.WriteString(strconv.FormatInt(rec.WatchTime, 10))
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(int(math.Round(rec.Progress))))
		buf.WriteByte(',')
		buf.WriteString(completed)
	}
	return buf.Bytes()
}
