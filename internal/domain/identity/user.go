package identity

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// userNamespace scopes the name-based UUIDs derived from emails.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://tecchohotel.com/users"))

// MaxEmailLength is the longest address a mailbox can have.
const MaxEmailLength = 254

// User is a signed-in guest or administrator. Users are derived from the
// login email and never stored on their own.
type User struct {
	id       uuid.UUID
	email    string
	name     string
	role     string
	joinDate time.Time
}

// NewUserFromEmail derives a user from a login email. The id is stable for
// the same email; the display name is the part before "@".
func NewUserFromEmail(email, role string, today time.Time) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return nil, domain.NewValidationError(fmt.Sprintf("email must be at most %d characters", MaxEmailLength))
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid email address: %s", email))
	}
	if role != auth.RoleGuest && role != auth.RoleAdmin {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid role: %s", role))
	}

	y, m, d := today.UTC().Date()
	return &User{
		id:       UserIDForEmail(email),
		email:    email,
		name:     strings.SplitN(email, "@", 2)[0],
		role:     role,
		joinDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}, nil
}

// ReconstructUser rebuilds a User from persistence.
func ReconstructUser(id uuid.UUID, email, name, role string, joinDate time.Time) *User {
	return &User{id: id, email: email, name: name, role: role, joinDate: joinDate}
}

// UserIDForEmail returns the name-based UUID for email, ignoring case.
func UserIDForEmail(email string) uuid.UUID {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(strings.TrimSpace(email))))
}

func (u *User) ID() uuid.UUID       { return u.id }
func (u *User) Email() string       { return u.email }
func (u *User) Name() string        { return u.name }
func (u *User) Role() string        { return u.role }
func (u *User) JoinDate() time.Time { return u.joinDate }

// IsAdmin reports whether the user may use the admin endpoints.
func (u *User) IsAdmin() bool { return u.role == auth.RoleAdmin }
