package ports

import "github.com/lexhaven/matters-api/internal/core/domain"

// AuditSink receives completed audit entries. Implementations route by
// severity: ERROR/CRITICAL to the error channel, WARN to the warning channel,
// everything else to the standard channel.
type AuditSink interface {
	Emit(entry *domain.AuditLogEntry)
}
