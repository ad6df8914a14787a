package service

import (
	"context"
	"database/sql"
	"fmt"

	"loyaltyclub/internal/model"
)

type MessageService struct {
	db *sql.DB
}

func NewMessageService(db *sql.DB) *MessageService {
	return &MessageService{db: db}
}

func (s *MessageService) Send(ctx context.Context, m *model.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (user_id, from_role, body) VALUES ($1, $2, $3)`,
		m.UserID, m.FromRole, m.Body,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}
