package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notifdomain "github.com/itsprade/good-morning/internal/notification/domain"
)

type DeviceTokenRepository interface {
	Save(userID, token, deviceInfo string) error
	FindByUserID(userID string) ([]notifdomain.DeviceToken, error)
	Delete(userID, token string) error
	DeleteTokens(tokens []string) error
	DeleteByUserID(userID string) error
}

type deviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// Save registers a token, moving it to userID if another account held it.
func (r *deviceTokenRepository) Save(userID, token, deviceInfo string) error {
	now := time.Now()
	row := &notifdomain.DeviceToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
	}).Create(row).Error
}

func (r *deviceTokenRepository) FindByUserID(userID string) ([]notifdomain.DeviceToken, error) {
	var tokens []notifdomain.DeviceToken
	if err := r.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *deviceTokenRepository) Delete(userID, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).Delete(&notifdomain.DeviceToken{}).Error
}

// DeleteTokens drops registrations FCM reported as invalid.
func (r *deviceTokenRepository) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.Where("token IN ?", tokens).Delete(&notifdomain.DeviceToken{}).Error
}

func (r *deviceTokenRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&notifdomain.DeviceToken{}).Error
}
