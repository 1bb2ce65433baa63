package domain

import "time"

type NotificationCategory string

const (
	CategorySuccess NotificationCategory = "success"
	CategoryError   NotificationCategory = "error"
	CategoryInfo    NotificationCategory = "info"
)

type Notification struct {
	ID        int64                `json:"id"`
	UserID    int64                `json:"user_id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  NotificationCategory `json:"category"`
	Link      string               `json:"link,omitempty"`
	IsRead    bool                 `json:"is_read"`
	CreatedAt time.Time            `json:"created_at"`
}
