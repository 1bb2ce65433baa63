package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venuebooking/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// insertNotifications stores ns on tx and returns them with ids assigned.
func insertNotifications(tx *gorm.DB, ns []domain.Notification) ([]domain.Notification, error) {
	if len(ns) == 0 {
		return nil, nil
	}

	rows := make([]notificationModel, 0, len(ns))
	for _, n := range ns {
		rows = append(rows, toNotificationModel(n))
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainNotification(row))
	}
	return out, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	stored, err := insertNotifications(r.db.WithContext(ctx), []domain.Notification{*n})
	if err != nil {
		return translate(err)
	}
	*n = stored[0]
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var rows []notificationModel
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainNotification(row))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, translate(err)
}

// MarkAsRead fails with domain.ErrNotFound unless the notification belongs to userID.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	tx := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	return tx.RowsAffected, translate(tx.Error)
}

// DeleteReadBefore removes read notifications created before cutoff.
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&notificationModel{})
	return tx.RowsAffected, translate(tx.Error)
}
