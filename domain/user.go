package domain

import "strings"

const (
	RoleAdmin      = "ADMIN"
	RoleDoctor     = "DOCTOR"
	RolePharmacist = "PHARMACIST"
	RoleSalesRep   = "SALES_REP"
	RoleCustomer   = "CUSTOMER"
)

// Permission names gate the console modules.
const (
	PermInventory     = "INVENTORY"
	PermPrescriptions = "PRESCRIPTIONS"
	PermAppointments  = "APPOINTMENTS"
	PermBilling       = "BILLING"
	PermReports       = "REPORTS"
	PermUsers         = "USERS"
)

type User struct {
	ID          int64  `db:"id" json:"id"`
	Email       string `db:"email" json:"email"`
	Password    string `db:"password" json:"-"`
	Name        string `db:"name" json:"name"`
	Role        string `db:"role" json:"role"`
	Permissions string `db:"permissions" json:"-"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}

// PermissionList splits the stored comma-joined permission column.
func (u User) PermissionList() []string {
	if u.Permissions == "" {
		return []string{}
	}
	return strings.Split(u.Permissions, ",")
}

// HasPermission reports whether the user carries the named permission.
func (u User) HasPermission(perm string) bool {
	for _, p := range u.PermissionList() {
		if p == perm {
			return true
		}
	}
	return false
}

// DefaultPermissions returns the permission set granted to a role when
// none is supplied at registration.
func DefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{PermInventory, PermPrescriptions, PermAppointments, PermBilling, PermReports, PermUsers}
	case RolePharmacist:
		return []string{PermInventory, PermBilling, PermPrescriptions}
	case RoleDoctor:
		return []string{PermPrescriptions, PermAppointments}
	case RoleSalesRep:
		return []string{PermInventory}
	default:
		return []string{}
	}
}
