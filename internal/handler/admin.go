package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"loyaltyclub/internal/auth"
)

// decodeID reads a row id, rejecting blanks with missing and non-UUIDs with invalid.
func decodeID(form url.Values, name, missing, invalid string) (string, error) {
	raw := field(form, name)
	if raw == "" {
		return "", reject(missing)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", reject(invalid)
	}
	return id.String(), nil
}

func RejectOrderHandler(g *Gate, orders OrderStore) http.HandlerFunc {
	a := &Action[string]{
		Name:      "admin-orders-reject",
		Origin:    pageAdmin,
		Access:    Admin,
		Privilege: auth.PrivilegeService,
		Decode: func(form url.Values) (string, error) {
			return decodeID(form, "order_id", "Missing order ID", "Invalid order ID")
		},
		Perform: func(ctx context.Context, req *Request[string]) (Outcome, error) {
			if err := orders.Reject(ctx, req.Form); err != nil {
				return Outcome{}, err
			}
			return Outcome{Location: withSuccess(pageAdmin, "Order rejected!")}, nil
		},
	}
	return a.Handler(g)
}

func FulfillRewardHandler(g *Gate, rewards RewardStore) http.HandlerFunc {
	a := &Action[string]{
		Name:      "admin-rewards-fulfill",
		Origin:    pageAdmin,
		Access:    Admin,
		Privilege: auth.PrivilegeService,
		Decode: func(form url.Values) (string, error) {
			return decodeID(form, "reward_id", "Missing reward ID", "Invalid reward ID")
		},
		Perform: func(ctx context.Context, req *Request[string]) (Outcome, error) {
			if err := rewards.Fulfill(ctx, req.Form); err != nil {
				return Outcome{}, err
			}
			return Outcome{Location: withSuccess(pageAdmin, "Reward marked as fulfilled!")}, nil
		},
	}
	return a.Handler(g)
}
