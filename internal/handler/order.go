package handler

import (
	"context"
	"net/http"
	"net/url"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
)

type orderForm struct {
	Number     string
	Source     string
	Date       string
	ReceiptURL *string
}

// decodeOrderForm keeps values as sent; blanks count as missing.
func decodeOrderForm(form url.Values) (orderForm, error) {
	f := orderForm{
		Number: form.Get("order_number"),
		Source: form.Get("source"),
		Date:   form.Get("order_date"),
	}
	if !present(f.Number) || !present(f.Source) || !present(f.Date) {
		return f, reject("Missing required fields")
	}
	if receipt := form.Get("receipt_url"); present(receipt) {
		f.ReceiptURL = &receipt
	}
	return f, nil
}

func SubmitOrderHandler(g *Gate, orders OrderStore) http.HandlerFunc {
	a := &Action[orderForm]{
		Name:      "orders-submit",
		Origin:    pageOrder,
		Access:    Member,
		Privilege: auth.PrivilegeAnon,
		Decode:    decodeOrderForm,
		Perform: func(ctx context.Context, req *Request[orderForm]) (Outcome, error) {
			order := &model.Order{
				UserID:      req.User.ID,
				OrderNumber: req.Form.Number,
				Source:      req.Form.Source,
				OrderDate:   req.Form.Date,
				ReceiptURL:  req.Form.ReceiptURL,
				Status:      model.OrderStatusPending,
			}
			if err := orders.Submit(ctx, order); err != nil {
				return Outcome{}, err
			}
			return Outcome{Location: withSuccess(pageOrder, "Order submitted successfully! We will review it soon.")}, nil
		},
	}
	return a.Handler(g)
}
