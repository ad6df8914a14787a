package handler

import (
	"context"

	"loyaltyclub/internal/model"
)

type OrderStore interface {
	Submit(ctx context.Context, o *model.Order) error
	Reject(ctx context.Context, orderID string) error
}

type MessageStore interface {
	Send(ctx context.Context, m *model.Message) error
}

type RewardStore interface {
	Eligibility(ctx context.Context, userID string) error
	Claim(ctx context.Context, r *model.Reward) error
	Fulfill(ctx context.Context, rewardID string) error
}

type AccountStore interface {
	DeleteData(ctx context.Context, userID string) error
}
