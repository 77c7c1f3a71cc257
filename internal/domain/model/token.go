package model

import "time"

// IssuedToken is a signed bearer token together with its expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
