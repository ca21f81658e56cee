package domain

// Role роль аутентифицированного пользователя
type Role string

const (
	RolePatient     Role = "patient"
	RoleClinicAdmin Role = "clinic_admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleClinicAdmin
}

// Identity authenticated caller as supplied by the identity service
type Identity struct {
	UserID   string
	Role     Role
	ClinicID string // заполняется только для администраторов клиники
}

// IsClinicAdminOf returns true if the caller administers the given clinic
func (i Identity) IsClinicAdminOf(clinicID string) bool {
	return i.Role == RoleClinicAdmin && i.ClinicID != "" && i.ClinicID == clinicID
}
