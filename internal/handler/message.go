package handler

import (
	"context"
	"net/http"
	"net/url"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
)

func SendMessageHandler(g *Gate, messages MessageStore) http.HandlerFunc {
	a := &Action[string]{
		Name:      "messages-send",
		Origin:    pageMessages,
		Access:    Member,
		Privilege: auth.PrivilegeAnon,
		Decode: func(form url.Values) (string, error) {
			body := field(form, "body")
			if body == "" {
				return "", reject("Message cannot be empty")
			}
			return body, nil
		},
		Perform: func(ctx context.Context, req *Request[string]) (Outcome, error) {
			msg := &model.Message{UserID: req.User.ID, FromRole: model.RoleUser, Body: req.Form}
			if err := messages.Send(ctx, msg); err != nil {
				return Outcome{}, err
			}
			return Outcome{Location: withSuccess(pageMessages, "Message sent successfully!")}, nil
		},
	}
	return a.Handler(g)
}
