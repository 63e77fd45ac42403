package domain

// AuditSeverity grades an audit entry for routing to a sink channel.
type AuditSeverity string

const (
	SeverityDebug    AuditSeverity = "DEBUG"
	SeverityInfo     AuditSeverity = "INFO"
	SeverityWarn     AuditSeverity = "WARN"
	SeverityError    AuditSeverity = "ERROR"
	SeverityCritical AuditSeverity = "CRITICAL"
)

// AuditCategory classifies what kind of operation an entry records.
type AuditCategory string

const (
	CategoryAuthentication      AuditCategory = "AUTHENTICATION"
	CategoryAuthorization       AuditCategory = "AUTHORIZATION"
	CategoryDataAccess          AuditCategory = "DATA_ACCESS"
	CategoryDataModification    AuditCategory = "DATA_MODIFICATION"
	CategoryDataDeletion        AuditCategory = "DATA_DELETION"
	CategoryDataExport          AuditCategory = "DATA_EXPORT"
	CategoryPrivilegedAccess    AuditCategory = "PRIVILEGED_ACCESS"
	CategoryConfigurationChange AuditCategory = "CONFIGURATION_CHANGE"
	CategorySecurityEvent       AuditCategory = "SECURITY_EVENT"
	CategorySystemEvent         AuditCategory = "SYSTEM_EVENT"
)

// Outcome values for an audit entry.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditUser identifies the caller recorded in an entry.
type AuditUser struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId,omitempty"`
	SessionID      string   `json:"sessionId,omitempty"`
	Roles          []string `json:"roles,omitempty"`
}

// AuditRequest captures request metadata. Query holds the sanitized query
// parameters after redaction.
type AuditRequest struct {
	ID            string         `json:"id"`
	Method        string         `json:"method"`
	Path          string         `json:"path"`
	Query         map[string]any `json:"query,omitempty"`
	ClientIP      string         `json:"clientIp,omitempty"`
	UserAgent     string         `json:"userAgent,omitempty"`
	CorrelationID string         `json:"correlationId"`
}

// AuditResponse captures the outcome of the downstream handler. Body is only
// populated for sensitive path prefixes, after redaction and truncation.
type AuditResponse struct {
	StatusCode int    `json:"statusCode"`
	DurationMS int64  `json:"durationMs"`
	Body       string `json:"body,omitempty"`
}

// AuditResource identifies the business object a request addressed, when one
// can be inferred from the route.
type AuditResource struct {
	Type           string `json:"type"`
	ID             string `json:"id,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
}

// AuditErrorDetail records why a request failed. Stack is only populated in
// non-production environments.
type AuditErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// AuditLogEntry is one append-only record in the tamper-evident chain.
//
// Hash is a keyed BLAKE2b-256 over the canonical JSON serialization of every
// other field; PreviousHash is the hash of the immediately preceding entry in
// process-wide emission order (empty for the first). All fields are typed
// structs, and the only map (Query) is marshalled with sorted keys by
// encoding/json, so serialization is deterministic and reproducible.
type AuditLogEntry struct {
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	Severity     AuditSeverity     `json:"severity"`
	Category     AuditCategory     `json:"category"`
	Action       string            `json:"action"`
	Outcome      string            `json:"outcome"`
	User         AuditUser         `json:"user"`
	Request      AuditRequest      `json:"request"`
	Response     *AuditResponse    `json:"response,omitempty"`
	Resource     *AuditResource    `json:"resource,omitempty"`
	Error        *AuditErrorDetail `json:"error,omitempty"`
	PreviousHash string            `json:"previousHash"`
	Hash         string            `json:"hash"`
}
