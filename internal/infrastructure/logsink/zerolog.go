// Package logsink adapts the structured logger into the audit sink consumed
// by the chain writer.
package logsink

import (
	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// ZerologSink emits audit entries on three zerolog channels: ERROR/CRITICAL
// entries on the error channel, WARN on the warning channel, everything else
// on the standard channel. Shipping the emitted lines onward (SIEM, log
// pipeline) is the deployment's concern.
type ZerologSink struct {
	log zerolog.Logger
}

func NewZerologSink(log zerolog.Logger) *ZerologSink {
	return &ZerologSink{log: log}
}

func (s *ZerologSink) Emit(entry *domain.AuditLogEntry) {
	var ev *zerolog.Event
	switch entry.Severity {
	case domain.SeverityError, domain.SeverityCritical:
		ev = s.log.Error()
	case domain.SeverityWarn:
		ev = s.log.Warn()
	default:
		ev = s.log.Info()
	}
	ev.Interface("audit", entry).Msg("audit entry")
}
