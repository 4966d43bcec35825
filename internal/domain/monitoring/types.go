package monitoring

// AlertKind clasifica las alertas que genera el monitoreo.
type AlertKind string

const (
	AlertKindFall          AlertKind = "fall"
	AlertKindHeartRate     AlertKind = "heart_rate"
	AlertKindInactivity    AlertKind = "inactivity"
	AlertKindDeviceOffline AlertKind = "device_offline"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
)

// LogKind separa el log diario de cuidado de los reportes periódicos.
// El acceso de caregivers a cada kind se acota por días distintos
// (log_access_days / report_access_days).
type LogKind string

const (
	LogKindDaily  LogKind = "daily_log"
	LogKindReport LogKind = "report"
)

type Source string

const (
	SourceDevice      Source = "device"
	SourceManual      Source = "manual"
	SourceIntegration Source = "integration"
)
