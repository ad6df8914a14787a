package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"loyaltyclub/internal/auth"
	"loyaltyclub/internal/model"
)

// Messages mirror the hosted auth service so the pages read the same either way.
var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrEmailTaken         = errors.New("User already registered")
	ErrInvalidEmail       = errors.New("Unable to validate email address: invalid format")
	ErrWeakPassword       = errors.New("Password should be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid JWT")
	ErrUserNotFound       = errors.New("User not found")
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type tokenClaims struct {
	Email string `json:"email"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// LocalAuth keeps accounts in Postgres. It stands in for the hosted auth
// service in development and self-hosted setups.
type LocalAuth struct {
	db     *sql.DB
	secret []byte
	now    func() time.Time
}

func NewLocalAuth(db *sql.DB, secret string) *LocalAuth {
	return &LocalAuth{db: db, secret: []byte(secret), now: time.Now}
}

// Client returns the provider itself: there are no per-privilege keys locally.
func (s *LocalAuth) Client(p auth.Privilege) (auth.Provider, bool) {
	if p == auth.PrivilegeNone || len(s.secret) == 0 {
		return nil, false
	}
	return s, true
}

func (s *LocalAuth) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	query := `INSERT INTO local_users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	if err := s.db.QueryRowContext(ctx, query, user.ID, user.Email, hash).Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.issue(&user)
}

func (s *LocalAuth) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	query := `SELECT id, email, password_hash, created_at FROM local_users WHERE email = $1`
	row := s.db.QueryRowContext(ctx, query, strings.TrimSpace(email))

	var user model.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(&user)
}

func (s *LocalAuth) GetUser(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return s.userByID(ctx, claims.Subject)
}

func (s *LocalAuth) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.userByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *LocalAuth) UpdatePassword(ctx context.Context, accessToken, password string) error {
	claims, err := s.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE local_users SET password_hash = $1 WHERE id = $2`, hash, claims.Subject)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *LocalAuth) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM local_users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *LocalAuth) userByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM local_users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *LocalAuth) issue(user *model.User) (*model.Session, error) {
	access, err := s.sign(user, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &model.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &model.User{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt},
	}, nil
}

func (s *LocalAuth) sign(user *model.User, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: user.Email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *LocalAuth) parse(tokenString, typ string) (*tokenClaims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Type != typ || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
