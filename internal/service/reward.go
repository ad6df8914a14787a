package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loyaltyclub/internal/model"
)

var (
	ErrNotEligible          = errors.New("not enough verified orders")
	ErrRewardAlreadyClaimed = errors.New("reward already claimed")
)

type RewardService struct {
	db *sql.DB
}

func NewRewardService(db *sql.DB) *RewardService {
	return &RewardService{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Eligibility reports ErrNotEligible or ErrRewardAlreadyClaimed when userID
// cannot claim a reward right now, and nil when it can.
func (s *RewardService) Eligibility(ctx context.Context, userID string) error {
	return eligibility(ctx, s.db, userID)
}

func eligibility(ctx context.Context, q queryer, userID string) error {
	var verified int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2`,
		userID, model.OrderStatusVerified,
	).Scan(&verified)
	if err != nil {
		return fmt.Errorf("count verified orders: %w", err)
	}
	if verified < model.VerifiedOrdersForReward {
		return ErrNotEligible
	}

	var claimed bool
	err = q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rewards WHERE user_id = $1)`, userID).Scan(&claimed)
	if err != nil {
		return fmt.Errorf("check existing reward: %w", err)
	}
	if claimed {
		return ErrRewardAlreadyClaimed
	}
	return nil
}

// Claim records the user's one reward once they have enough verified orders.
// Eligibility is checked again under a per-user lock.
func (s *RewardService) Claim(ctx context.Context, r *model.Reward) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Concurrent claims by one user queue here until the first commits.
	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, r.UserID); err != nil {
		return fmt.Errorf("lock user rewards: %w", err)
	}

	if err = eligibility(ctx, tx, r.UserID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rewards (user_id, status, claim_address) VALUES ($1, $2, $3)`,
		r.UserID, model.RewardStatusClaimed, r.ClaimAddress,
	)
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *RewardService) Fulfill(ctx context.Context, rewardID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE rewards SET status = $1 WHERE id = $2`,
		model.RewardStatusFulfilled, rewardID,
	)
	if err != nil {
		return fmt.Errorf("update reward: %w", err)
	}
	return nil
}
