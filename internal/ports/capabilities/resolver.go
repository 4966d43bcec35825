package capabilities

import "context"

// CapabilityCheck es la consulta mínima: ¿el usuario tiene esta feature en su plan?
type CapabilityCheck struct {
	UserID  string
	Feature string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
