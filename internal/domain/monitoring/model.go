package monitoring

import "time"

type Alert struct {
	ID        string
	ProfileID string

	Kind     AlertKind
	Severity Severity
	Message  string
	Source   Source

	RaisedAt time.Time

	Status  AlertStatus
	AckedBy string
	AckedAt *time.Time
}

type LogEntry struct {
	ID        string
	ProfileID string

	Kind  LogKind
	Title string
	Body  string

	RecordedAt time.Time
	RecordedBy string
}

// StreamTicket es el descriptor efímero para abrir el stream en vivo.
// El servicio no transporta video; solo emite el ticket si el caller
// tiene stream_view vigente.
type StreamTicket struct {
	SessionID string
	ProfileID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
