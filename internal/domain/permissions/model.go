package permissions

import "time"

// HistoryEntry es una transición registrada en la solicitud. La lista es
// append-only: reopen agrega una segunda entrada PENDING, nunca colapsa.
type HistoryEntry struct {
	Status RequestStatus `json:"status"`
	At     time.Time     `json:"at"`
	By     string        `json:"by,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// PermissionRequest es una solicitud embebida dentro del par. Nunca se
// persiste por separado: toda mutación pasa por el write del agregado.
type PermissionRequest struct {
	ID    string      `json:"id"`
	Type  RequestType `json:"type"`
	Value Value       `json:"value"`
	Scope Scope       `json:"scope,omitempty"`

	Status RequestStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	DecidedBy      string     `json:"decided_by,omitempty"`
	DecisionReason string     `json:"decision_reason,omitempty"`

	History []HistoryEntry `json:"history"`
}

// Effective son los permisos vigentes del par. Cada campo refleja el valor de
// la última solicitud APPROVED de su tipo; el motor lo setea en approve y
// nunca lo recalcula desde history.
type Effective struct {
	StreamView  bool `json:"stream_view"`
	AlertRead   bool `json:"alert_read"`
	AlertAck    bool `json:"alert_ack"`
	ProfileView bool `json:"profile_view"`

	LogAccessDays    int `json:"log_access_days"`
	ReportAccessDays int `json:"report_access_days"`

	NotificationChannels []Channel `json:"notification_channels"`
}

// Pair es el agregado persistido, uno por (customer, caregiver).
type Pair struct {
	ID string

	CustomerID  string
	CaregiverID string

	Effective Effective
	Requests  []PermissionRequest

	CreatedAt time.Time
	UpdatedAt time.Time
}

// findRequest devuelve un puntero al request dentro del slice (o nil).
func (p *Pair) findRequest(id string) *PermissionRequest {
	for i := range p.Requests {
		if p.Requests[i].ID == id {
			return &p.Requests[i]
		}
	}
	return nil
}

func (p *Pair) hasPendingOfType(t RequestType) bool {
	for i := range p.Requests {
		if p.Requests[i].Type == t && p.Requests[i].Status == StatusPending {
			return true
		}
	}
	return false
}

// alreadyGranted responde si el pedido ya está cubierto por los permisos
// vigentes: bool ya en true, días vigentes >= pedidos, canales pedidos
// incluidos en los vigentes.
func (p *Pair) alreadyGranted(t RequestType, v Value) bool {
	switch t {
	case TypeStreamView:
		return p.Effective.StreamView
	case TypeAlertRead:
		return p.Effective.AlertRead
	case TypeAlertAck:
		return p.Effective.AlertAck
	case TypeProfileView:
		return p.Effective.ProfileView
	case TypeLogAccessDays:
		return p.Effective.LogAccessDays >= v.Days
	case TypeReportAccessDays:
		return p.Effective.ReportAccessDays >= v.Days
	case TypeNotificationChannel:
		have := map[Channel]struct{}{}
		for _, c := range p.Effective.NotificationChannels {
			have[c] = struct{}{}
		}
		for _, c := range v.Channels {
			if _, ok := have[c]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// applyEffective copia el valor aprobado al campo vigente. Approve siempre
// reemplaza, nunca mezcla (los canales se pisan completos).
func (p *Pair) applyEffective(t RequestType, v Value) {
	switch t {
	case TypeStreamView:
		p.Effective.StreamView = v.Bool
	case TypeAlertRead:
		p.Effective.AlertRead = v.Bool
	case TypeAlertAck:
		p.Effective.AlertAck = v.Bool
	case TypeProfileView:
		p.Effective.ProfileView = v.Bool
	case TypeLogAccessDays:
		p.Effective.LogAccessDays = v.Days
	case TypeReportAccessDays:
		p.Effective.ReportAccessDays = v.Days
	case TypeNotificationChannel:
		p.Effective.NotificationChannels = append([]Channel(nil), v.Channels...)
	}
}
