package identity

// RoleAdministrator is the platform's canonical administrator role name.
// The backend stores role names in Spanish; this is the one role the
// privileged-staff override applies to.
const RoleAdministrator = "Administrador"

// Identity is the authenticated user's profile as returned by the
// Identity API. It is fetched once per session establishment and is
// read-only to everything except the session manager.
type Identity struct {
	ID            string `json:"id,omitempty"`
	Username      string `json:"username,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	RoleName      string `json:"role,omitempty"`
	IsPrivileged  bool   `json:"is_staff,omitempty"`
	CondominiumID string `json:"condominium_id,omitempty"`
}

// SatisfiesRole reports whether the identity meets a screen or menu role
// requirement. An empty requirement is always satisfied. Privileged
// (staff) users satisfy the administrator requirement regardless of
// their exact role name; the override is defined here and nowhere else.
func (i Identity) SatisfiesRole(required string) bool {
	if required == "" {
		return true
	}
	if i.RoleName == required {
		return true
	}
	return i.IsPrivileged && required == RoleAdministrator
}
