package domain

// Category classifies tickets; rows live in the ticket_categories lookup.
type Category struct {
	ID   int64
	Name string
}

// Priority ranks ticket urgency; rows live in the ticket_priorities lookup.
type Priority struct {
	ID   int64
	Name string
}
