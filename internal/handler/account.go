package handler

import (
	"context"
	"net/http"
	"net/url"
	"unicode/utf8"

	"loyaltyclub/internal/auth"
)

const minPasswordLength = 6

func ChangePasswordHandler(g *Gate) http.HandlerFunc {
	a := &Action[string]{
		Name:      "auth-change-password",
		Origin:    pageSettings,
		Access:    Member,
		Privilege: auth.PrivilegeAnon,
		Decode: func(form url.Values) (string, error) {
			// Passwords are taken as typed, surrounding spaces included.
			password := form.Get("new_password")
			if utf8.RuneCountInString(password) < minPasswordLength {
				return "", reject("Password must be at least 6 characters")
			}
			return password, nil
		},
		Perform: func(ctx context.Context, req *Request[string]) (Outcome, error) {
			if err := req.Auth.UpdatePassword(ctx, req.AccessToken, req.Form); err != nil {
				return Outcome{}, err
			}
			return Outcome{Location: withSuccess(pageSettings, "Password updated successfully!")}, nil
		},
	}
	return a.Handler(g)
}

func DeleteAccountHandler(g *Gate, accounts AccountStore) http.HandlerFunc {
	a := &Action[string]{
		Name:      "auth-delete-account",
		Origin:    pageSettings,
		Access:    Member,
		Privilege: auth.PrivilegeService,
		Decode: func(form url.Values) (string, error) {
			return form.Get("confirm_email"), nil
		},
		Perform: func(ctx context.Context, req *Request[string]) (Outcome, error) {
			if req.Form == "" || req.Form != req.User.Email {
				return Outcome{}, reject("Email confirmation does not match")
			}
			if err := accounts.DeleteData(ctx, req.User.ID); err != nil {
				return Outcome{}, err
			}
			if err := req.Auth.DeleteUser(ctx, req.User.ID); err != nil {
				return Outcome{}, err
			}
			return Outcome{
				Location:     withSuccess(pageLogin, "Your account has been deleted"),
				ClearSession: true,
			}, nil
		},
	}
	return a.Handler(g)
}
