package model

import "time"

const (
	RewardStatusClaimed   = "claimed"
	RewardStatusFulfilled = "fulfilled"
)

// VerifiedOrdersForReward is how many verified orders a user needs before claiming.
const VerifiedOrdersForReward = 5

type Reward struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	ClaimAddress string    `json:"claim_address"`
	CreatedAt    time.Time `json:"created_at"`
}
