package models

import "time"

// UserRequest is one entry of a user's recent activity.
type UserRequest struct {
	Method    string    `json:"method"`
	Route     string    `json:"route"`
	Status    int       `json:"status"`
	RequestID string    `json:"request_id"`
	At        time.Time `json:"at"`
}
