package domain

import "time"

// User mirrors the persisted representation in the users table. The username
// is the primary key and never changes after registration.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinAt       time.Time
	LastLoginAt  time.Time
}

// PublicSummary returns the subset of the record that is safe to expose to
// other users.
func (u User) PublicSummary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// UserSummary is the counterparty view embedded in message listings. It never
// carries credentials or activity timestamps.
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}
