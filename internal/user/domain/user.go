package domain

import "time"

// User is a directory entry for a principal known to the system. Rows are
// provisioned just-in-time from the identity provider's token; credentials
// never live here.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
