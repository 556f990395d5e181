package domain

import "strings"

// Role enumerates the application-level permission tiers.
type Role string

const (
	RoleUser  Role = "USER"
	RoleHost  Role = "HOST"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps backend role spellings (ROLE_HOST, ROLE_USER, ROLE_ADMIN or the
// bare forms) to a canonical Role. The backend is not consistent about which
// spelling it uses, so both are accepted.
func ParseRole(value string) (Role, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, "ROLE_")

	switch Role(normalized) {
	case RoleUser, RoleHost, RoleAdmin:
		return Role(normalized), true
	default:
		return "", false
	}
}

// Profile is the normalized user profile reconciled from the backend's
// heterogeneous response shapes.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	RoleName  Role   `json:"roleName,omitempty"`
}

// IsHost reports whether the profile resolved to the host tier.
func (p Profile) IsHost() bool { return p.RoleName == RoleHost }

// IsAdmin reports whether the profile resolved to the admin tier.
func (p Profile) IsAdmin() bool { return p.RoleName == RoleAdmin }

// Session pairs a bearer token with its normalized profile. A session counts as
// authenticated only when both halves are present.
type Session struct {
	Token string
	User  *Profile
}

// Authenticated reports whether the session has both a token and a profile.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil && s.User.ID != ""
}
