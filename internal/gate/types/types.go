package types

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole maps free-form input to a known role, defaulting to User.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID   int64
	UID  string
	Name string
	Role Role
}

type AccessStatus string

const (
	StatusGranted AccessStatus = "Granted"
	StatusDenied  AccessStatus = "Denied"
)

// Decision is the outcome of looking up a scanned UID.  User is populated
// only when Granted.
type Decision struct {
	UID       string
	Granted   bool
	User      *User
	DecidedAt time.Time
}

func (d Decision) Status() AccessStatus {
	if d.Granted {
		return StatusGranted
	}
	return StatusDenied
}

// Session is the in-memory record of the currently authenticated user.
// The zero value means logged out.  It is held by the UI's serializing
// execution context and never persisted.
type Session struct {
	Role Role
	Name string
	UID  string
}

func (s Session) Active() bool { return s.UID != "" }

func SessionFor(u User) Session {
	return Session{Role: u.Role, Name: u.Name, UID: u.UID}
}

type AccessLogEntry struct {
	ID        int64
	UID       string
	CreatedAt time.Time
	Status    AccessStatus
}

type StockItem struct {
	ID       int64
	Name     string
	Quantity int
}

type StockLogEntry struct {
	ID        int64
	Name      string
	Change    int
	UserName  string
	UserUID   string
	CreatedAt time.Time
}
