// Package model defines the core domain types for the resource booking
// system: users and their roles, bookable resources, bookings and the
// half-hour slot arithmetic used throughout.
package model

// Role is the capability tag of a user. It decides whether the user may
// manage resources and edit other users' bookings, and colours the user's
// bookings in the calendar.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is a known role value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      Role
	// CreatedEvents counts the bookings the user has created, kept in sync
	// transactionally with every insert.
	CreatedEvents int
}

// IsAdmin reports whether the user holds administrator capabilities.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Resource is a bookable shared resource, such as a room or a projector.
type Resource struct {
	ID   string
	Name string
}

// daysInMonth holds the day count per month in a non-leap year.
var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// ValidDate reports whether day/month/year form a real calendar date,
// accounting for leap years.
func ValidDate(day, month, year int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return false
	}
	max := daysInMonth[month]
	if month == 2 && isLeap(year) {
		max = 29
	}
	return day <= max
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DateValue collapses a date into a single comparable magnitude, equivalent
// to comparing the zero-padded yyyymmdd string lexicographically.
func DateValue(day, month, year int) int {
	return year*10000 + month*100 + day
}

// ClockValue collapses a wall-clock time into a single comparable magnitude,
// equivalent to comparing the zero-padded HHmm string lexicographically.
func ClockValue(hour, minute int) int {
	return hour*100 + minute
}
