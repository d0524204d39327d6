package domain

import "time"

// Event is a calendar entry stored for today's view
type Event struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"userId" gorm:"not null;index:idx_events_user_start,priority:1"`
	GoogleEventID string    `json:"googleEventId"`
	Title         string    `json:"title" gorm:"not null"`
	StartTime     time.Time `json:"startTime" gorm:"not null;index:idx_events_user_start,priority:2"`
	EndTime       time.Time `json:"endTime" gorm:"not null"`
	MeetingLink   *string   `json:"meetingLink,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
