package domain

// Role identifies the access level assigned to a user by the backend.
// The backend encodes roles as integers and the post-login landing page
// depends on which one came back.
type Role int

const (
	RoleAdmin   Role = 1
	RoleUser    Role = 2
	RoleManager Role = 3
)

// RedirectPath returns the screen a freshly authenticated user should land on.
func (r Role) RedirectPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleUser:
		return "/createExam"
	case RoleManager:
		return "/manager"
	default:
		return "/manager"
	}
}

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleManager:
		return "manager"
	default:
		return "unknown"
	}
}

// UserProfile is the cached identity of the signed-in user. It is written
// only by successful auth operations and never partially updated.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// GoogleIdentity carries the fields the Google sign-in popup hands back.
// The popup itself runs in the UI shell; the portal only sees its result.
type GoogleIdentity struct {
	UID         string `json:"uid"`
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}
