package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleTeacher UserRole = "teacher"
)

// User represents an authenticated account within the platform. Accounts are
// materialized lazily: the first authenticated call upserts a row from the
// identity provider's profile claims.
type User struct {
	ID        string
	Subject   string // identity-provider subject claim
	Email     string
	Name      string
	Picture   string
	Locale    string
	Role      UserRole
	Points    int
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LevelForPoints derives the gamification level from a points balance.
// Every 100 points is one level, starting at level 1.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	return points/100 + 1
}
