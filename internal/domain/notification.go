package domain

import "time"

type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	FastFoodID string    `json:"fastFoodId,omitempty"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	GroupID    string    `json:"groupId,omitempty"` // marks whole groups read at once
	Type       string    `json:"type,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
