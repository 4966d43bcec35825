package permissions

import "context"

// Repository persiste el agregado completo. El documento entero se lee y se
// escribe de una; no hay persistencia parcial de requests.
type Repository interface {
	// GetPair devuelve el par y found=false si no existe (sin error).
	GetPair(ctx context.Context, customerID, caregiverID string) (Pair, bool, error)
	CreateEmpty(ctx context.Context, customerID, caregiverID string) (Pair, error)
	// Update reemplaza campos vigentes + requests del agregado por su ID.
	Update(ctx context.Context, p Pair) error

	ListByCustomer(ctx context.Context, customerID string) ([]Pair, error)

	// Lookups por request id, con scope según el rol del caller.
	GetByRequestIDForCustomer(ctx context.Context, requestID, customerID string) (Pair, bool, error)
	GetByRequestIDForCaregiver(ctx context.Context, requestID, caregiverID string) (Pair, bool, error)
	GetByRequestID(ctx context.Context, requestID string) (Pair, bool, error)
}
