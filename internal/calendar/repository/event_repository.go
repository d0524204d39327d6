package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itsprade/good-morning/internal/calendar/domain"
)

type EventRepository interface {
	// ReplaceDay swaps every event of the user starting in [from, to) for
	// events, in one transaction.
	ReplaceDay(userID string, from, to time.Time, events []*domain.Event) error
	FindBetween(userID string, from, to time.Time) ([]*domain.Event, error)
	DeleteByUserID(userID string) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ReplaceDay(userID string, from, to time.Time, events []*domain.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from, to).
			Delete(&domain.Event{}).Error; err != nil {
			return err
		}
		for _, e := range events {
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			e.UserID = userID
		}
		if len(events) == 0 {
			return nil
		}
		return tx.Create(&events).Error
	})
}

func (r *eventRepository) FindBetween(userID string, from, to time.Time) ([]*domain.Event, error) {
	var events []*domain.Event
	err := r.db.Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from, to).
		Order("start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.Event{}).Error
}
