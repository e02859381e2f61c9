package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog is one audit-trail row recording a routed request and its
// outcome. Audit rows never influence routing.
type QueryLog struct {
	ID        uuid.UUID `db:"id"`
	Query     string    `db:"query"`
	Action    string    `db:"action"`
	Success   bool      `db:"success"`
	Response  string    `db:"response"`
	CreatedAt time.Time `db:"created_at"`
}
