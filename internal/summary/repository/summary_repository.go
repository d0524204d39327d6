package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itsprade/good-morning/internal/summary/domain"
)

type SummaryRepository interface {
	// Find returns nil, nil when the day has no summary yet
	Find(userID, day string) (*domain.DailySummary, error)
	Create(summary *domain.DailySummary) error
	Delete(userID, day string) error
	DeleteByUserID(userID string) error
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) Find(userID, day string) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := r.db.Where("user_id = ? AND day = ?", userID, day).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) Create(summary *domain.DailySummary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	return r.db.Create(summary).Error
}

func (r *summaryRepository) Delete(userID, day string) error {
	return r.db.Where("user_id = ? AND day = ?", userID, day).Delete(&domain.DailySummary{}).Error
}

func (r *summaryRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.DailySummary{}).Error
}
