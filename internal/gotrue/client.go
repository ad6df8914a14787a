// Package gotrue talks to the hosted auth service (Supabase Auth).
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	gotrueapi "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
)

// APIError is a non-2xx answer from the auth service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Factory struct {
	url        string
	anonKey    string
	serviceKey string
	http       http.Client
}

// NewFactory builds clients for the project at projectURL, e.g. https://xyz.supabase.co.
func NewFactory(projectURL, anonKey, serviceKey string) *Factory {
	return &Factory{
		url:        projectURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http:       http.Client{Timeout: 10 * time.Second},
	}
}

func (f *Factory) Client(p auth.Privilege) (auth.Provider, bool) {
	if f.url == "" {
		return nil, false
	}
	var key string
	switch p {
	case auth.PrivilegeAnon:
		key = f.anonKey
	case auth.PrivilegeService:
		key = f.serviceKey
	}
	if key == "" {
		return nil, false
	}
	api := gotrueapi.New("", key).
		WithCustomGoTrueURL(f.url + "/auth/v1").
		WithClient(f.http)
	return &Client{api: api, key: key}, true
}

// Client adapts the auth service API to auth.Provider. The underlying API
// takes no context, so cancellation is bounded by the HTTP client timeout.
type Client struct {
	api gotrueapi.Client
	key string
}

func (c *Client) GetUser(_ context.Context, accessToken string) (*model.User, error) {
	res, err := c.api.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, apiError(err)
	}
	if res.ID == uuid.Nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "User not found"}
	}
	return toUser(res.User), nil
}

func (c *Client) SignUp(_ context.Context, email, password string) (*model.Session, error) {
	res, err := c.api.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, apiError(err)
	}
	// Without auto-confirm the service answers with the bare user object.
	if res.Session.AccessToken == "" {
		return nil, nil
	}
	return toSession(res.Session), nil
}

func (c *Client) SignIn(_ context.Context, email, password string) (*model.Session, error) {
	res, err := c.api.Token(types.TokenRequest{GrantType: "password", Email: email, Password: password})
	if err != nil {
		return nil, apiError(err)
	}
	return toSession(res.Session), nil
}

func (c *Client) Refresh(_ context.Context, refreshToken string) (*model.Session, error) {
	res, err := c.api.Token(types.TokenRequest{GrantType: "refresh_token", RefreshToken: refreshToken})
	if err != nil {
		return nil, apiError(err)
	}
	return toSession(res.Session), nil
}

func (c *Client) UpdatePassword(_ context.Context, accessToken, password string) error {
	_, err := c.api.WithToken(accessToken).UpdateUser(types.UpdateUserRequest{Password: &password})
	return apiError(err)
}

// DeleteUser calls the admin endpoint with the client's own key as bearer,
// so it only succeeds on a service client.
func (c *Client) DeleteUser(_ context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	return apiError(c.api.WithToken(c.key).AdminDeleteUser(types.AdminDeleteUserRequest{UserID: id}))
}

type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

var statusError = regexp.MustCompile(`(?s)^response status code (\d{3})(?:: (.*))?$`)

// apiError recovers the status and message from the library's error text.
// Transport and decoding errors pass through unchanged.
func apiError(err error) error {
	if err == nil {
		return nil
	}
	m := statusError.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	status, _ := strconv.Atoi(m[1])

	var res errorResponse
	_ = json.Unmarshal([]byte(m[2]), &res)

	msg := res.Msg
	for _, alt := range []string{res.Message, res.ErrorDescription, res.Error} {
		if msg == "" {
			msg = alt
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("unexpected status: %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

func toUser(u types.User) *model.User {
	return &model.User{ID: u.ID.String(), Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSession(s types.Session) *model.Session {
	sess := &model.Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
	if s.User.ID != uuid.Nil {
		sess.User = toUser(s.User)
	}
	return sess
}
