package domain

import "time"

// Customer is the domain model for people who raise tickets.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
