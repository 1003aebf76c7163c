package model

import "time"

const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// Analyst is a user of the collections dashboard
type Analyst struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
