package auth

// Claims representa la información extraída del token.
// Role: customer | caregiver | admin (lo interpreta cada módulo).
type Claims struct {
	UserID   string
	Email    string
	TenantID string
	Role     string
}
