package entity

import "time"

// User is the owner of scanned flights
type User struct {
	ID        string
	Email     string
	Name      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
