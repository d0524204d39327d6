package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
)

type emailActionRepository struct {
	db *gorm.DB
}

func NewEmailActionRepository(db *gorm.DB) EmailActionRepository {
	return &emailActionRepository{db: db}
}

func (r *emailActionRepository) Create(action *emaildomain.EmailAction) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.Status == "" {
		action.Status = emaildomain.ActionSuggested
	}
	return r.db.Create(action).Error
}

func (r *emailActionRepository) FindByID(id string) (*emaildomain.EmailAction, error) {
	var action emaildomain.EmailAction
	err := r.db.Where("id = ?", id).First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

func (r *emailActionRepository) FindSuggested(userID string, limit int) ([]*emaildomain.EmailAction, error) {
	var actions []*emaildomain.EmailAction
	query := r.db.Where("user_id = ? AND status = ?", userID, emaildomain.ActionSuggested).
		Order("received_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&actions).Error
	return actions, err
}

func (r *emailActionRepository) CountSuggested(userID string) (int64, error) {
	var n int64
	err := r.db.Model(&emaildomain.EmailAction{}).
		Where("user_id = ? AND status = ?", userID, emaildomain.ActionSuggested).
		Count(&n).Error
	return n, err
}

func (r *emailActionRepository) TransitionStatus(userID, id string, to emaildomain.ActionStatus, convertedToTaskID *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if convertedToTaskID != nil {
		updates["converted_to_task_id"] = *convertedToTaskID
	}
	res := r.db.Model(&emaildomain.EmailAction{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, emaildomain.ActionSuggested).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *emailActionRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&emaildomain.EmailAction{}).Error
}
