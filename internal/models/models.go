package models

// Field names follow the JSON document the mock server persists; timestamps
// are kept as ISO 8601 strings the way the document stores them.

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	LastLogin string `json:"lastLogin,omitempty"`
}

type Video struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"isPublic"`
	Views       int64    `json:"views"`
	UploadDate  string   `json:"uploadDate"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	UsageCount  int64  `json:"usageCount"`
}

type EmailTemplate struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Type      string   `json:"type"`
	Variables []string `json:"variables"`
}

type SystemLog struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	User      string `json:"user,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	Details   string `json:"details,omitempty"`
}

type ViewingRecord struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	VideoID      int64   `json:"videoId"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	WatchTime    int64   `json:"watchTime"`
	Progress     float64 `json:"progress"`
	Completed    bool    `json:"completed"`
	LastPosition int64   `json:"lastPosition"`
}

// ViewingRecordSummary is the joined row returned by the viewing-record
// listing; userName and videoTitle fall back to the 不明 sentinel when the
// referenced user or video no longer exists.
type ViewingRecordSummary struct {
	ID           int64   `json:"id"`
	UserName     string  `json:"userName"`
	VideoTitle   string  `json:"videoTitle"`
	WatchTime    int64   `json:"watchTime"`
	Progress     float64 `json:"progress"`
	Completed    bool    `json:"completed"`
	LastViewedAt string  `json:"lastViewedAt"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
