package services

import (
	"sort"
	"strconv"
	"time"

	"videoadmin-backend-go/internal/models"
	"videoadmin-backend-go/internal/store"
)

// Read-side aggregates for the dashboard. Everything is computed from the
// document with linear scans; at mock scale that is the whole point.

type AnalyticsOverview struct {
	TotalUsers     int     `json:"totalUsers"`
	ActiveUsers    int     `json:"activeUsers"`
	TotalVideos    int     `json:"totalVideos"`
	PublicVideos   int     `json:"publicVideos"`
	TotalViews     int64   `json:"totalViews"`
	TotalWatchTime int64   `json:"totalWatchTime"`
	CompletionRate float64 `json:"completionRate"`
}

func Overview(st *store.Store) AnalyticsOverview {
	users := decodeRecords[models.User](st.List("users", nil))
	videos := decodeRecords[models.Video](st.List("videos", nil))
	records := decodeRecords[models.ViewingRecord](st.List("viewing_records", nil))

	overview := AnalyticsOverview{TotalUsers: len(users), TotalVideos: len(videos)}
	for _, user := range users {
		if user.Status == "active" {
			overview.ActiveUsers++
		}
	}
	for _, video := range videos {
		if video.IsPublic {
			overview.PublicVideos++
		}
		overview.TotalViews += video.Views
	}
	completed := 0
	for _, rec := range records {
		overview.TotalWatchTime += rec.WatchTime
		if rec.Completed {
			completed++
		}
	}
	if len(records) > 0 {
		overview.CompletionRate = float64(completed) / float64(len(records))
	}
	return overview
}

type TrendPoint struct {
	Date      string `json:"date"`
	Views     int    `json:"views"`
	WatchTime int64  `json:"watchTime"`
}

// ViewingTrends buckets viewing records per calendar day of their start
// time, oldest day first.
func ViewingTrends(st *store.Store) []TrendPoint {
	byDate := map[string]*TrendPoint{}
	for _, rec := range decodeRecords[models.ViewingRecord](st.List("viewing_records", nil)) {
		date := dayOf(rec.StartTime)
		point, ok := byDate[date]
		if !ok {
			point = &TrendPoint{Date: date}
			byDate[date] = point
		}
		point.Views++
		point.WatchTime += rec.WatchTime
	}
	out := make([]TrendPoint, 0, len(byDate))
	for _, point := range byDate {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func dayOf(timestamp string) string {
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}

type CategorySlice struct {
	Category   string `json:"category"`
	VideoCount int    `json:"videoCount"`
	Views      int64  `json:"views"`
}

func CategoryDistribution(st *store.Store) []CategorySlice {
	byCategory := map[string]*CategorySlice{}
	for _, video := range decodeRecords[models.Video](st.List("videos", nil)) {
		slice, ok := byCategory[video.Category]
		if !ok {
			slice = &CategorySlice{Category: video.Category}
			byCategory[video.Category] = slice
		}
		slice.VideoCount++
		slice.Views += video.Views
	}
	out := make([]CategorySlice, 0, len(byCategory))
	for _, slice := range byCategory {
		out = append(out, *slice)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return out
}

type PopularVideo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Views    int64  `json:"views"`
}

func PopularVideos(st *store.Store, limit int) []PopularVideo {
	videos := decodeRecords[models.Video](st.List("videos", nil))
	sort.Slice(videos, func(i, j int) bool { return videos[i].Views > videos[j].Views })
	if limit <= 0 {
		limit = 5
	}
	if limit > len(videos) {
		limit = len(videos)
	}
	out := make([]PopularVideo, 0, limit)
	for _, video := range videos[:limit] {
		out = append(out, PopularVideo{ID: video.ID, Title: video.Title, Category: video.Category, Views: video.Views})
	}
	return out
}

type UserActivity struct {
	UserID     int64  `json:"userId"`
	UserName   string `json:"userName"`
	Sessions   int    `json:"sessions"`
	WatchTime  int64  `json:"watchTime"`
	LastActive string `json:"lastActive"`
}

func ActivityByUser(st *store.Store) []UserActivity {
	names := userNames(st)
	byUser := map[int64]*UserActivity{}
	for _, rec := range decodeRecords[models.ViewingRecord](st.List("viewing_records", nil)) {
		activity, ok := byUser[rec.UserID]
		if !ok {
			activity = &UserActivity{UserID: rec.UserID, UserName: nameOr(names, rec.UserID)}
			byUser[rec.UserID] = activity
		}
		activity.Sessions++
		activity.WatchTime += rec.WatchTime
		if rec.EndTime > activity.LastActive {
			activity.LastActive = rec.EndTime
		}
	}
	out := make([]UserActivity, 0, len(byUser))
	for _, activity := range byUser {
		out = append(out, *activity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WatchTime > out[j].WatchTime })
	return out
}

type RangeSummary struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Views     int    `json:"views"`
	WatchTime int64  `json:"watchTime"`
	Completed int    `json:"completed"`
}

// RangeAnalytics summarizes records whose start day falls inside the
// inclusive [startDate, endDate] window (YYYY-MM-DD; empty bound = open).
func RangeAnalytics(st *store.Store, startDate, endDate string) (RangeSummary, error) {
	for _, bound := range []string{startDate, endDate} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", bound); err != nil {
			return RangeSummary{}, ErrBadRequest("日付の形式が正しくありません")
		}
	}
	summary := RangeSummary{StartDate: startDate, EndDate: endDate}
	for _, rec := range decodeRecords[models.ViewingRecord](st.List("viewing_records", nil)) {
		day := dayOf(rec.StartTime)
		if startDate != "" && day < startDate {
			continue
		}
		if endDate != "" && day > endDate {
			continue
		}
		summary.Views++
		summary.WatchTime += rec.WatchTime
		if rec.Completed {
			summary.Completed++
		}
	}
	return summary, nil
}

type UserAnalytics struct {
	UserID      int64   `json:"userId"`
	UserName    string  `json:"userName"`
	Sessions    int     `json:"sessions"`
	WatchTime   int64   `json:"watchTime"`
	AvgProgress float64 `json:"averageProgress"`
	Completed   int     `json:"completed"`
}

func AnalyticsForUser(st *store.Store, userID int64) (UserAnalytics, error) {
	name, ok := userNames(st)[userID]
	if !ok {
		return UserAnalytics{}, ErrNotFound("ユーザーが見つかりません")
	}
	out := UserAnalytics{UserID: userID, UserName: name}
	records := decodeRecords[models.ViewingRecord](st.List("viewing_records", map[string]string{"userId": strconv.FormatInt(userID, 10)}))
	var progressSum float64
	for _, rec := range records {
		out.Sessions++
		out.WatchTime += rec.WatchTime
		progressSum += rec.Progress
		if rec.Completed {
			out.Completed++
		}
	}
	if out.Sessions > 0 {
		out.AvgProgress = progressSum / float64(out.Sessions)
	}
	return out, nil
}

type VideoAnalytics struct {
	VideoID        int64   `json:"videoId"`
	Title          string  `json:"title"`
	Sessions       int     `json:"sessions"`
	WatchTime      int64   `json:"watchTime"`
	AvgProgress    float64 `json:"averageProgress"`
	CompletionRate float64 `json:"completionRate"`
}

func AnalyticsForVideo(st *store.Store, videoID int64) (VideoAnalytics, error) {
	title, ok := videoTitles(st)[videoID]
	if !ok {
		return VideoAnalytics{}, ErrNotFound("動画が見つかりません")
	}
	out := VideoAnalytics{VideoID: videoID, Title: title}
	records := decodeRecords[models.ViewingRecord](st.List("viewing_records", map[string]string{"videoId": strconv.FormatInt(videoID, 10)}))
	var progressSum float64
	completed := 0
	for _, rec := range records {
		out.Sessions++
		out.WatchTime += rec.WatchTime
		progressSum += rec.Progress
		if rec.Completed {
			completed++
		}
	}
	if out.Sessions > 0 {
		out.AvgProgress = progressSum / float64(out.Sessions)
		out.CompletionRate = float64(completed) / float64(out.Sessions)
	}
	return out, nil
}
