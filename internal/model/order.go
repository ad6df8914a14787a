package model

import "time"

const (
	OrderStatusPending  = "pending"
	OrderStatusVerified = "verified"
	OrderStatusRejected = "rejected"
)

type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	OrderNumber string    `json:"order_number"`
	Source      string    `json:"source"`
	OrderDate   string    `json:"order_date"`
	ReceiptURL  *string   `json:"receipt_url"`
	Status      string    `json:"status"` // pending, verified, rejected
	CreatedAt   time.Time `json:"created_at"`
}
