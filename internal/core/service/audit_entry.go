package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// RedactedValue replaces any sensitive value before it reaches a log sink.
const RedactedValue = "[REDACTED]"

// sensitiveKeyMarkers is matched against lowercased field names with
// substring semantics: "newPassword", "apiToken" and "x-authorization" are
// all caught.
var sensitiveKeyMarkers = []string{
	"password", "passwd", "token", "secret",
	"apikey", "api_key", "api-key",
	"authorization", "cookie",
	"ssn", "social_security",
	"creditcard", "credit_card", "card_number", "cvv", "cvc", "pin",
	"dob", "date_of_birth", "birthdate",
	"private_key",
}

// bodyCapturePrefixes are the only routes whose response bodies are included
// in audit entries; everything else logs metadata only.
var bodyCapturePrefixes = []string{
	"/auth", "/admin", "/users", "/documents", "/matters", "/ai", "/export",
}

// genericPathSegments never name a resource type.
var genericPathSegments = map[string]struct{}{
	"api": {}, "v1": {}, "v2": {},
}

// NewRequestID generates the per-request audit id: a millisecond timestamp
// prefix for rough ordering plus a random suffix for uniqueness.
func NewRequestID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), suffix)
}

// ClassifyCategory maps a request to its audit category, by path prefix
// first and HTTP method second.
func ClassifyCategory(method, path string) domain.AuditCategory {
	p := strings.ToLower(path)
	switch {
	case strings.HasPrefix(p, "/auth"):
		return domain.CategoryAuthentication
	case strings.HasPrefix(p, "/admin"), strings.HasPrefix(p, "/config"):
		return domain.CategoryConfigurationChange
	case strings.HasPrefix(p, "/export"), strings.HasPrefix(p, "/download"):
		return domain.CategoryDataExport
	case strings.HasPrefix(p, "/privileged"), strings.HasPrefix(p, "/attorney"):
		return domain.CategoryPrivilegedAccess
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return domain.CategoryDataModification
	case http.MethodDelete:
		return domain.CategoryDataDeletion
	default:
		return domain.CategoryDataAccess
	}
}

// ClassifySeverity grades an entry from its category, outcome and status.
func ClassifySeverity(category domain.AuditCategory, outcome string, status int) domain.AuditSeverity {
	if outcome == domain.OutcomeFailure {
		if status >= http.StatusInternalServerError {
			return domain.SeverityError
		}
		return domain.SeverityWarn
	}
	if category == domain.CategoryConfigurationChange {
		return domain.SeverityWarn
	}
	return domain.SeverityInfo
}

// NormalizePath replaces UUID-shaped and purely numeric path segments with a
// placeholder so audit actions group by route shape rather than instance id.
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = ":id"
			continue
		}
		if isDigits(seg) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Redact walks an arbitrary decoded value and replaces every value whose key
// contains a sensitive marker, recursively.
func Redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if isSensitiveKey(k) {
				out[k] = RedactedValue
				continue
			}
			out[k] = Redact(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = Redact(inner)
		}
		return out
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, marker := range sensitiveKeyMarkers {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

// CaptureBody reports whether the route's response body belongs in the audit
// entry.
func CaptureBody(path string) bool {
	p := strings.ToLower(path)
	for _, prefix := range bodyCapturePrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// InferResource derives the resource sub-record from the request path and
// route parameters. Returns nil when no resource type can be named.
func InferResource(path string, params map[string]string, organizationID string) *domain.AuditResource {
	var resourceType string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if _, generic := genericPathSegments[strings.ToLower(seg)]; generic {
			continue
		}
		resourceType = seg
		break
	}
	if resourceType == "" {
		return nil
	}

	var id string
	for _, key := range []string{"id", "documentId", "matterId"} {
		if v, ok := params[key]; ok && v != "" {
			id = v
			break
		}
	}

	return &domain.AuditResource{
		Type:           resourceType,
		ID:             id,
		OrganizationID: organizationID,
	}
}
