package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FromRole  string    `json:"from_role"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
