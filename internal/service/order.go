package service

import (
	"context"
	"database/sql"
	"fmt"

	"loyaltyclub/internal/model"
)

type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

// Submit stores a new order awaiting review.
func (s *OrderService) Submit(ctx context.Context, o *model.Order) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (user_id, order_number, source, order_date, receipt_url, status) VALUES ($1, $2, $3, $4, $5, $6)`,
		o.UserID, o.OrderNumber, o.Source, o.OrderDate, o.ReceiptURL, model.OrderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *OrderService) Reject(ctx context.Context, orderID string) error {
	return s.setStatus(ctx, orderID, model.OrderStatusRejected)
}

func (s *OrderService) setStatus(ctx context.Context, orderID, status string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, orderID); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}
