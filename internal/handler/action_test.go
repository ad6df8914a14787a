package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/gotrue"
)

var memberEndpoints = []string{
	"auth-change-password",
	"auth-delete-account",
	"messages-send",
	"orders-submit",
	"rewards-claim",
	"admin-orders-reject",
	"admin-rewards-fulfill",
}

func TestNonPostIsRejected(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range append(memberEndpoints, "auth-signup", "auth-login", "auth-logout") {
		t.Run(name, func(t *testing.T) {
			for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
				r := httptest.NewRequest(method, "/.netlify/functions/"+name, nil)
				w := httptest.NewRecorder()
				env.router.ServeHTTP(w, r)

				assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
				assert.Equal(t, "Method not allowed", w.Body.String())
			}
		})
	}
}

func TestActionRejectsNonPostDirectly(t *testing.T) {
	env := newTestEnv(t)
	h := LogoutHandler(env.gate)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", w.Body.String())
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestMissingConfiguration(t *testing.T) {
	tests := []struct {
		endpoint string
		missing  auth.Privilege
		location string
	}{
		{"orders-submit", auth.PrivilegeAnon, "/submit-order?error=Configuration%20error"},
		{"messages-send", auth.PrivilegeAnon, "/messages?error=Configuration%20error"},
		{"rewards-claim", auth.PrivilegeAnon, "/claim-reward?error=Configuration%20error"},
		{"auth-change-password", auth.PrivilegeAnon, "/settings?error=Configuration%20error"},
		{"auth-signup", auth.PrivilegeAnon, "/login?error=Configuration%20error"},
		{"auth-login", auth.PrivilegeAnon, "/login?error=Configuration%20error"},
		{"auth-delete-account", auth.PrivilegeService, "/settings?error=Configuration%20error"},
		{"admin-orders-reject", auth.PrivilegeService, "/admin?error=Configuration%20error"},
		{"admin-rewards-fulfill", auth.PrivilegeService, "/admin?error=Configuration%20error"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			env := newTestEnv(t)
			cookie := env.login(t, "u-1", adminEmail)
			env.factory.keys[tt.missing] = false

			w := env.post(tt.endpoint, url.Values{}, cookie)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestLogoutNeedsNoConfiguration(t *testing.T) {
	env := newTestEnv(t)
	env.factory.keys = nil

	w := env.post("auth-logout", nil, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestWithoutSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range memberEndpoints {
		t.Run(name, func(t *testing.T) {
			for _, cookie := range []string{"", "other=1", session2("garbage"), session2("")} {
				w := env.post(name, url.Values{"body": {"hi"}}, cookie)

				assert.Equal(t, http.StatusFound, w.Code)
				assert.Equal(t, "/login", w.Header().Get("Location"))
			}
		})
	}

	assert.Empty(t, env.messages.sent)
}

func session2(token string) string {
	return "sb-access-token=" + token + "; sb-refresh-token=rt"
}

func TestNonAdminIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "u-1", "ann@example.com")

	for _, name := range []string{"admin-orders-reject", "admin-rewards-fulfill"} {
		t.Run(name, func(t *testing.T) {
			form := url.Values{
				"order_id":  {"6f1f8f5e-3c1a-4d1e-9b7a-0d2b8c9e1a11"},
				"reward_id": {"6f1f8f5e-3c1a-4d1e-9b7a-0d2b8c9e1a11"},
			}
			w := env.post(name, form, cookie)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/dashboard?error=Unauthorized", w.Header().Get("Location"))
		})
	}

	assert.Empty(t, env.orders.rejected)
	assert.Empty(t, env.rewards.fulfilled)
}

func TestBackendErrorMessageIsSurfaced(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		location string
	}{
		{
			"postgres error",
			&pgconn.PgError{Code: "22007", Message: `invalid input syntax for type date: "soon"`},
			"/submit-order?error=invalid%20input%20syntax%20for%20type%20date%3A%20%22soon%22",
		},
		{
			"auth service error",
			&gotrue.APIError{Status: 500, Message: "Database error & more"},
			"/submit-order?error=Database%20error%20%26%20more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			cookie := env.login(t, "u-1", "ann@example.com")
			env.orders.err = tt.err

			form := url.Values{"order_number": {"AB123"}, "source": {"amazon"}, "order_date": {"soon"}}
			w := env.post("orders-submit", form, cookie)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestMultipartFormIsAccepted(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "u-1", "ann@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("body", "  hello there  "))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/.netlify/functions/messages-send", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)

	assert.Equal(t, "/messages?success=Message%20sent%20successfully!", w.Header().Get("Location"))
	require.Len(t, env.messages.sent, 1)
	assert.Equal(t, "hello there", env.messages.sent[0].Body)
}

func TestMalformedMultipartIsRejected(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "u-1", "ann@example.com")

	r := httptest.NewRequest(http.MethodPost, "/.netlify/functions/messages-send", bytes.NewBufferString("not multipart"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	r.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)

	assert.Equal(t, "/messages?error=Invalid%20form%20data", w.Header().Get("Location"))
	assert.Empty(t, env.messages.sent)
}

func TestOversizedFormIsRejected(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "u-1", "ann@example.com")

	body := "order_number=AB123&source=amazon&order_date=2024-01-01&pad=" + strings.Repeat("a", maxFormBytes)
	r := httptest.NewRequest(http.MethodPost, "/.netlify/functions/orders-submit", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)

	assert.Equal(t, "/submit-order?error=Invalid%20form%20data", w.Header().Get("Location"))
	assert.Empty(t, env.orders.submitted)
}

func TestMultipartFilesAreRemoved(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("body", "see attachment"))
	part, err := mw.CreateFormFile("receipt", "receipt.bin")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{1}, 2*maxFormMemory))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	a := &Action[struct{}]{
		Name:   "upload",
		Origin: "/",
		Access: Public,
		Perform: func(context.Context, *Request[struct{}]) (Outcome, error) {
			return Outcome{Location: "/done"}, nil
		},
	}

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.Handler(env.gate)(w, r)

	assert.Equal(t, "/done", w.Header().Get("Location"))
	require.NotNil(t, r.MultipartForm)
	files := r.MultipartForm.File["receipt"]
	require.Len(t, files, 1)
	_, err = files[0].Open()
	assert.Error(t, err, "temporary file should be gone")
}

func TestActionWithoutDecodeGetsZeroForm(t *testing.T) {
	env := newTestEnv(t)
	var got *Request[struct{}]
	a := &Action[struct{}]{
		Name:   "noop",
		Origin: "/",
		Access: Public,
		Perform: func(_ context.Context, req *Request[struct{}]) (Outcome, error) {
			got = req
			return Outcome{Location: "/done"}, nil
		},
	}

	w := httptest.NewRecorder()
	a.Handler(env.gate)(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, "/done", w.Header().Get("Location"))
	require.NotNil(t, got)
	assert.Nil(t, got.User)
	assert.Nil(t, got.Auth)
}
