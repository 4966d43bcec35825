package profiles

import "time"

// MobilityLevel describe la movilidad de la persona monitoreada.
// @Enum independent, assisted, wheelchair, bedridden
type MobilityLevel string

const (
	MobilityIndependent MobilityLevel = "independent"
	MobilityAssisted    MobilityLevel = "assisted"
	MobilityWheelchair  MobilityLevel = "wheelchair"
	MobilityBedridden   MobilityLevel = "bedridden"
)

// CareProfile es el perfil de la persona monitoreada, propiedad del customer.
// Los caregivers solo lo ven con el permiso profile_view vigente.
type CareProfile struct {
	ID          string
	OwnerUserID string

	Name     string
	TimeZone string
	Address  string

	Mobility MobilityLevel

	EmergencyContact string
	Notes            string

	CreatedAt time.Time
	UpdatedAt time.Time
}
