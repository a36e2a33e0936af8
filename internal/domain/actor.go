package domain

import "github.com/google/uuid"

// Actor roles recognized by the catalog.
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// Actor is the authenticated principal performing a catalog operation.
// Token issuance and account management live in an external service; the
// catalog only consumes the resulting identity.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanCreate reports whether the actor may add products to the catalog.
func (a Actor) CanCreate() bool {
	return a.Role == RoleAdmin || a.Role == RoleVendor
}

// CanMutate reports whether the actor may modify the given product.
// Admins may mutate anything; vendors only their own products.
func (a Actor) CanMutate(p *Product) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleVendor && a.ID == p.VendorID
}
