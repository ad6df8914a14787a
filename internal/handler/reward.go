package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
	"loyaltyclub/internal/service"
)

type claimForm struct {
	Name    string
	Address string
	Phone   string
}

// ClaimAddress is the single text block stored with the reward.
func (f claimForm) ClaimAddress() string {
	return f.Name + "\n" + f.Address + "\n" + f.Phone
}

func (f claimForm) complete() bool {
	return present(f.Name) && present(f.Address) && present(f.Phone)
}

// claimError turns the eligibility sentinels into what the page shows.
func claimError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotEligible):
		return reject(fmt.Sprintf("You need %d verified orders to claim a reward", model.VerifiedOrdersForReward))
	case errors.Is(err, service.ErrRewardAlreadyClaimed):
		return reject("You have already claimed your reward")
	}
	return err
}

func ClaimRewardHandler(g *Gate, rewards RewardStore) http.HandlerFunc {
	a := &Action[claimForm]{
		Name:      "rewards-claim",
		Origin:    pageReward,
		Access:    Member,
		Privilege: auth.PrivilegeAnon,
		// Presence is checked in Perform, after eligibility.
		Decode: func(form url.Values) (claimForm, error) {
			return claimForm{Name: form.Get("name"), Address: form.Get("address"), Phone: form.Get("phone")}, nil
		},
		Perform: func(ctx context.Context, req *Request[claimForm]) (Outcome, error) {
			if err := rewards.Eligibility(ctx, req.User.ID); err != nil {
				return Outcome{}, claimError(err)
			}
			if !req.Form.complete() {
				return Outcome{}, reject("All fields are required")
			}

			reward := &model.Reward{
				UserID:       req.User.ID,
				Status:       model.RewardStatusClaimed,
				ClaimAddress: req.Form.ClaimAddress(),
			}
			if err := rewards.Claim(ctx, reward); err != nil {
				return Outcome{}, claimError(err)
			}
			return Outcome{Location: withSuccess(pageReward, "Reward claimed successfully! We will process your order soon.")}, nil
		},
	}
	return a.Handler(g)
}
