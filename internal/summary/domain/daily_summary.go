package domain

import "time"

// DailySummary is the cached narrative of one user's day
type DailySummary struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"userId" gorm:"not null;uniqueIndex:idx_daily_summaries_user_day,priority:1"`
	Day               string    `json:"day" gorm:"not null;size:10;uniqueIndex:idx_daily_summaries_user_day,priority:2"` // YYYY-MM-DD
	BoldPart          string    `json:"boldPart"`
	LightPart         string    `json:"lightPart"`
	MeetingsCount     int       `json:"meetingsCount"`
	EmailActionsCount int       `json:"emailActionsCount"`
	TasksCount        int       `json:"tasksCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Summary is what callers get back from the cache
type Summary struct {
	Bold     string `json:"bold"`
	Light    string `json:"light"`
	Day      string `json:"day"`
	Cached   bool   `json:"cached"`
	Fallback bool   `json:"fallback"`
}
