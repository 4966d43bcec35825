package permissions

import "strings"

// RequestType define los tipos de permiso que un caregiver puede solicitar.
// @Enum stream_view, alert_read, alert_ack, profile_view, log_access_days, report_access_days, notification_channel
type RequestType string

const (
	TypeStreamView          RequestType = "stream_view"
	TypeAlertRead           RequestType = "alert_read"
	TypeAlertAck            RequestType = "alert_ack"
	TypeProfileView         RequestType = "profile_view"
	TypeLogAccessDays       RequestType = "log_access_days"
	TypeReportAccessDays    RequestType = "report_access_days"
	TypeNotificationChannel RequestType = "notification_channel"
)

// Kind devuelve la forma del valor que corresponde al tipo.
func (t RequestType) Kind() ValueKind {
	switch t {
	case TypeStreamView, TypeAlertRead, TypeAlertAck, TypeProfileView:
		return KindBool
	case TypeLogAccessDays, TypeReportAccessDays:
		return KindDays
	case TypeNotificationChannel:
		return KindChannels
	default:
		return ""
	}
}

func (t RequestType) Valid() bool {
	return t.Kind() != ""
}

// RequestStatus es el estado de una solicitud dentro del ciclo de vida.
// @Enum PENDING, APPROVED, REJECTED, REVOKED
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
	// StatusRevoked solo se alcanza por acción administrativa fuera de banda;
	// el motor lo acepta como origen de reopen pero nunca lo asigna.
	StatusRevoked RequestStatus = "REVOKED"
)

// Decided indica si el estado ya salió de PENDING.
func (s RequestStatus) Decided() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusRevoked
}

// Scope es opcional y hoy no se aplica; queda para extensión futura.
type Scope string

const (
	ScopeRead      Scope = "read"
	ScopeWrite     Scope = "write"
	ScopeReadWrite Scope = "read_write"
)

func (s Scope) Valid() bool {
	switch s {
	case "", ScopeRead, ScopeWrite, ScopeReadWrite:
		return true
	default:
		return false
	}
}

// Channel define los canales de notificación soportados.
type Channel string

const (
	ChannelPush Channel = "push"
	ChannelSMS  Channel = "sms"
	ChannelCall Channel = "call"
)

// Role del actor autenticado. El handler traduce los claims a este tipo.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleCaregiver Role = "caregiver"
	RoleAdmin     Role = "admin"
)

// Actor es la identidad que ejecuta una operación del motor.
type Actor struct {
	ID   string
	Role Role
}

// normalizeChannelsStrict valida contra el set soportado y deduplica
// preservando el orden de entrada.
func normalizeChannelsStrict(in []Channel) ([]Channel, error) {
	allowed := map[Channel]struct{}{
		ChannelPush: {},
		ChannelSMS:  {},
		ChannelCall: {},
	}

	seen := map[Channel]struct{}{}
	out := make([]Channel, 0, len(in))

	for _, raw := range in {
		c := Channel(strings.TrimSpace(string(raw)))
		if c == "" {
			continue
		}
		if _, ok := allowed[c]; !ok {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out, nil
}
