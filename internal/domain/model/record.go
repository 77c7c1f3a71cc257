package model

import "time"

// Record is a single phone book entry. FullName and PhoneNumber are each
// unique across the whole book.
type Record struct {
	ID          int64
	FullName    string
	PhoneNumber string
	CreatedAt   time.Time
}
