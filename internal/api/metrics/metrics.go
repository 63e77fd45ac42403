// Package metrics defines and registers all custom Prometheus metrics for the
// matters API. It is the single source of truth for metric names, labels, and
// help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matters"

// AuditEntriesTotal counts emitted audit entries.
// Labels:
//   - category: audit category (e.g. "DATA_ACCESS", "CONFIGURATION_CHANGE")
//   - outcome: "success" or "failure"
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries appended to the chain.",
	},
	[]string{"category", "outcome"},
)

// AccessDeniedTotal counts access-gate denials. The rule label is internal
// telemetry only; clients always see the same opaque denial.
// Label:
//   - rule: "no_roles" or "role_mismatch"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the role gate.",
	},
	[]string{"rule"},
)

// TenantResolutionsTotal counts tenant resolution attempts.
// Label:
//   - result: "resolved" or "denied"
var TenantResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenant_resolutions_total",
		Help:      "Total number of tenant resolution attempts, by result.",
	},
	[]string{"result"},
)

// OrganizationCacheTotal counts organization cache lookups.
// Label:
//   - result: "hit" or "miss"
var OrganizationCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "organization_cache_total",
		Help:      "Total number of organization cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
