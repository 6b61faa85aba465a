package models

import "time"

type IdempotencyStatus string

const (
	IdempotencyInFlight  IdempotencyStatus = "in_flight"
	IdempotencyCompleted IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Key          string            `json:"key" db:"key"`
	Operation    string            `json:"operation" db:"operation"`
	RequestHash  string            `json:"request_hash" db:"request_hash"`
	Status       IdempotencyStatus `json:"status" db:"status"`
	ResponseCode int               `json:"response_code,omitempty" db:"response_code"`
	ResponseBody []byte            `json:"response_data,omitempty" db:"response_body"`
	LockedUntil  time.Time         `json:"locked_until" db:"locked_until"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

type IdempotencyCheck struct {
	IsDuplicate bool               `json:"is_duplicate"`
	InFlight    bool               `json:"in_flight"`
	Record      *IdempotencyRecord `json:"response_data,omitempty"`
}
