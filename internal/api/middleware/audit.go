package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/api/metrics"
	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/service"
)

const maxCapturedBody = 4096

// auditExcludedPrefixes are never audited.
var auditExcludedPrefixes = []string{"/health", "/metrics", "/favicon.ico"}

// Audit records exactly one chained audit entry per request, success or
// failure. Once the downstream handler has run, nothing in entry construction
// or emission may fail the request: problems are logged once and swallowed.
func Audit(chain *service.AuditChain, production bool, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range auditExcludedPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			start := time.Now()

			// The entry id is always generated here, before the handler runs,
			// so the header reaches the client even when the handler commits
			// the response. An inbound X-Request-ID never becomes the entry
			// id: a caller must not be able to choose or collide audit ids.
			// It survives only as the correlation id.
			requestID := service.NewRequestID()
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			// Response bodies are only captured for sensitive routes.
			var body *bodyCapturer
			if service.CaptureBody(path) {
				body = &bodyCapturer{ResponseWriter: c.Response().Writer, limit: maxCapturedBody}
				c.Response().Writer = body
			}

			err := next(c)

			recordEntry(c, chain, requestID, err, start, body, production, log)
			return err
		}
	}
}

// recordEntry builds, signs and emits the entry. Any panic or error here is
// contained: audit logging must never turn a successful request into a
// failure.
func recordEntry(c echo.Context, chain *service.AuditChain, requestID string, handlerErr error, start time.Time, body *bodyCapturer, production bool, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("audit entry construction panicked")
		}
	}()

	entry := buildEntry(c, requestID, handlerErr, start, body, production)
	if err := chain.Append(entry); err != nil {
		log.Warn().Err(err).Str("request_id", entry.ID).Msg("failed to append audit entry")
		return
	}
	metrics.AuditEntriesTotal.WithLabelValues(string(entry.Category), entry.Outcome).Inc()
}

func buildEntry(c echo.Context, requestID string, handlerErr error, start time.Time, body *bodyCapturer, production bool) *domain.AuditLogEntry {
	req := c.Request()
	path := req.URL.Path

	status := statusOf(c, handlerErr)
	outcome := domain.OutcomeSuccess
	if handlerErr != nil || status >= http.StatusBadRequest {
		outcome = domain.OutcomeFailure
	}
	category := service.ClassifyCategory(req.Method, path)

	entry := &domain.AuditLogEntry{
		ID:        requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Severity:  service.ClassifySeverity(category, outcome, status),
		Category:  category,
		Action:    req.Method + " " + service.NormalizePath(path),
		Outcome:   outcome,
		User:      auditUser(c),
		Request: domain.AuditRequest{
			ID:            requestID,
			Method:        req.Method,
			Path:          path,
			Query:         sanitizedQuery(c),
			ClientIP:      c.RealIP(),
			UserAgent:     req.UserAgent(),
			CorrelationID: correlationID(req, requestID),
		},
		Response: &domain.AuditResponse{
			StatusCode: status,
			DurationMS: time.Since(start).Milliseconds(),
		},
		Resource: service.InferResource(path, routeParams(c), organizationOf(c)),
	}

	if body != nil {
		entry.Response.Body = body.redacted()
	}
	if handlerErr != nil {
		entry.Error = errorDetail(handlerErr, production)
	}
	return entry
}

// correlationID preserves a caller-supplied X-Request-ID for cross-service
// tracing without letting it become the entry id.
func correlationID(req *http.Request, requestID string) string {
	if inbound := req.Header.Get(echo.HeaderXRequestID); inbound != "" {
		return inbound
	}
	return requestID
}

func auditUser(c echo.Context) domain.AuditUser {
	p := PrincipalFrom(c)
	if p == nil {
		return domain.AuditUser{ID: "anonymous"}
	}
	return domain.AuditUser{
		ID:             p.Subject,
		OrganizationID: p.OrganizationID,
		SessionID:      p.SessionID,
		Roles:          p.RoleStrings(),
	}
}

func organizationOf(c echo.Context) string {
	if tc := TenantFrom(c); tc != nil {
		return tc.OrganizationID
	}
	if p := PrincipalFrom(c); p != nil {
		return p.OrganizationID
	}
	return ""
}

func sanitizedQuery(c echo.Context) map[string]any {
	params := c.QueryParams()
	if len(params) == 0 {
		return nil
	}
	raw := make(map[string]any, len(params))
	for key, values := range params {
		if len(values) == 1 {
			raw[key] = values[0]
			continue
		}
		vs := make([]any, len(values))
		for i, v := range values {
			vs[i] = v
		}
		raw[key] = vs
	}
	redacted, _ := service.Redact(raw).(map[string]any)
	return redacted
}

func routeParams(c echo.Context) map[string]string {
	names := c.ParamNames()
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = c.Param(name)
	}
	return out
}

// statusOf resolves the status the error handler will eventually write; the
// audit entry is built before the response is committed.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		if s := c.Response().Status; s != 0 {
			return s
		}
		return http.StatusOK
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if domain.IsDenial(err) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func errorDetail(err error, production bool) *domain.AuditErrorDetail {
	detail := &domain.AuditErrorDetail{
		Code:    errorCode(err),
		Message: err.Error(),
	}
	if !production {
		detail.Stack = string(debug.Stack())
	}
	return detail
}

// errorCode keeps the distinguishing detail of a denial in the audit trail;
// the client-facing response stays opaque.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingTenantContext):
		return "MISSING_TENANT_CONTEXT"
	case errors.Is(err, domain.ErrUnauthorizedTenantSwitch):
		return "UNAUTHORIZED_TENANT_SWITCH"
	case errors.Is(err, domain.ErrTenantNotFound):
		return "TENANT_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidTenantIdentifier):
		return "INVALID_TENANT_IDENTIFIER"
	case errors.Is(err, domain.ErrTenantSessionFailed):
		return "TENANT_SESSION_FAILED"
	case errors.Is(err, domain.ErrAccessDenied):
		return "ACCESS_DENIED"
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return http.StatusText(he.Code)
	}
	return "INTERNAL_ERROR"
}

// Markers recorded in place of a captured body that redaction could not be
// applied to. Bodies on sensitive routes are never recorded raw.
const (
	truncatedBodyValue   = "[TRUNCATED]"
	unparseableBodyValue = "[UNPARSEABLE]"
)

// bodyCapturer tees the response body up to a fixed limit, tracking the full
// written size so an overflowing capture is detectable.
type bodyCapturer struct {
	http.ResponseWriter
	buf     bytes.Buffer
	limit   int
	written int
}

func (w *bodyCapturer) Write(p []byte) (int, error) {
	w.written += len(p)
	if remaining := w.limit - w.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return w.ResponseWriter.Write(p)
}

// redacted returns the captured body with sensitive fields masked. A body
// that outgrew the capture limit, or that does not decode as JSON, cannot be
// redacted, so a fixed marker is recorded instead of the raw bytes.
func (w *bodyCapturer) redacted() string {
	raw := w.buf.Bytes()
	if len(raw) == 0 {
		return ""
	}
	if w.written > w.limit {
		return truncatedBodyValue
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return unparseableBodyValue
	}
	clean, err := json.Marshal(service.Redact(decoded))
	if err != nil {
		return unparseableBodyValue
	}
	return string(clean)
}
