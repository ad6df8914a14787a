package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
	"loyaltyclub/internal/service"
	"loyaltyclub/internal/session"
)

const adminEmail = "boss@example.com"

type fakeProvider struct {
	users map[string]*model.User

	signUpSession *model.Session
	signInSession *model.Session
	err           error

	updatedPasswords map[string]string
	deletedUsers     []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: map[string]*model.User{}, updatedPasswords: map[string]string{}}
}

func (p *fakeProvider) GetUser(_ context.Context, token string) (*model.User, error) {
	if u, ok := p.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid JWT")
}

func (p *fakeProvider) SignUp(context.Context, string, string) (*model.Session, error) {
	return p.signUpSession, p.err
}

func (p *fakeProvider) SignIn(context.Context, string, string) (*model.Session, error) {
	return p.signInSession, p.err
}

func (p *fakeProvider) Refresh(context.Context, string) (*model.Session, error) {
	return nil, errors.New("Invalid Refresh Token")
}

func (p *fakeProvider) UpdatePassword(_ context.Context, token, password string) error {
	if p.err != nil {
		return p.err
	}
	p.updatedPasswords[token] = password
	return nil
}

func (p *fakeProvider) DeleteUser(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.deletedUsers = append(p.deletedUsers, id)
	return nil
}

// fakeFactory serves one provider for the privileges listed in keys.
type fakeFactory struct {
	provider *fakeProvider
	keys     map[auth.Privilege]bool
}

func (f *fakeFactory) Client(p auth.Privilege) (auth.Provider, bool) {
	if !f.keys[p] {
		return nil, false
	}
	return f.provider, true
}

type fakeOrders struct {
	submitted []*model.Order
	rejected  []string
	err       error
}

func (s *fakeOrders) Submit(_ context.Context, o *model.Order) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, o)
	return nil
}

func (s *fakeOrders) Reject(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.rejected = append(s.rejected, id)
	return nil
}

type fakeMessages struct {
	sent []*model.Message
}

func (s *fakeMessages) Send(_ context.Context, m *model.Message) error {
	s.sent = append(s.sent, m)
	return nil
}

// fakeRewards answers eligibility from verified and claimed.
type fakeRewards struct {
	verified  map[string]int
	claimed   []*model.Reward
	fulfilled []string
}

func (s *fakeRewards) Eligibility(_ context.Context, userID string) error {
	if s.verified[userID] < model.VerifiedOrdersForReward {
		return service.ErrNotEligible
	}
	for _, c := range s.claimed {
		if c.UserID == userID {
			return service.ErrRewardAlreadyClaimed
		}
	}
	return nil
}

func (s *fakeRewards) Claim(ctx context.Context, r *model.Reward) error {
	if err := s.Eligibility(ctx, r.UserID); err != nil {
		return err
	}
	s.claimed = append(s.claimed, r)
	return nil
}

func (s *fakeRewards) Fulfill(_ context.Context, id string) error {
	s.fulfilled = append(s.fulfilled, id)
	return nil
}

type fakeAccounts struct {
	deleted []string
	err     error
}

func (s *fakeAccounts) DeleteData(_ context.Context, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, userID)
	return nil
}

type testEnv struct {
	provider *fakeProvider
	factory  *fakeFactory
	gate     *Gate
	orders   *fakeOrders
	messages *fakeMessages
	rewards  *fakeRewards
	accounts *fakeAccounts
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	p := newFakeProvider()
	f := &fakeFactory{provider: p, keys: map[auth.Privilege]bool{auth.PrivilegeAnon: true, auth.PrivilegeService: true}}
	env := &testEnv{
		provider: p,
		factory:  f,
		gate:     &Gate{Auth: f, Admins: session.ParseAdmins(adminEmail)},
		orders:   &fakeOrders{},
		messages: &fakeMessages{},
		rewards:  &fakeRewards{verified: map[string]int{}},
		accounts: &fakeAccounts{},
	}
	env.router = NewRouter("/.netlify/functions", []string{"*"}, env.gate, Stores{
		Orders:   env.orders,
		Messages: env.messages,
		Rewards:  env.rewards,
		Accounts: env.accounts,
	})
	return env
}

// login registers a user with the fake provider and returns a Cookie header for it.
func (e *testEnv) login(t *testing.T, id, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte("test"))
	require.NoError(t, err)
	e.provider.users[signed] = &model.User{ID: id, Email: email}
	return session.AccessCookie + "=" + signed + "; " + session.RefreshCookie + "=refresh-" + id
}

func (e *testEnv) post(name string, form url.Values, cookie string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/.netlify/functions/"+name, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		r.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func accessToken(cookie string) string {
	access, _ := session.Tokens(&http.Request{Header: http.Header{"Cookie": {cookie}}})
	return access
}
