package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
	"github.com/lexhaven/matters-api/internal/core/service"
)

const testOrgID = "123e4567-e89b-12d3-a456-426614174000"

type stubResolver struct {
	tc  *domain.TenantContext
	err error
}

func (s *stubResolver) Resolve(ctx context.Context, p *domain.Principal, override string) (*domain.TenantContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tc, nil
}

type stubSession struct{}

func (stubSession) Begin(ctx context.Context, organizationID string) (context.Context, ports.ReleaseFunc, error) {
	return ctx, func() {}, nil
}

type stubMatters struct {
	all []ports.MatterSummary
}

func (s *stubMatters) List(ctx context.Context, limit, offset int) ([]ports.MatterSummary, error) {
	if offset >= len(s.all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.all) {
		end = len(s.all)
	}
	return s.all[offset:end], nil
}

func (s *stubMatters) FindByID(ctx context.Context, id string) (*ports.MatterSummary, error) {
	for i := range s.all {
		if s.all[i].ID == id {
			return &s.all[i], nil
		}
	}
	return nil, domain.ErrMatterNotFound
}

func (s *stubMatters) ListAll(ctx context.Context) ([]ports.MatterSummary, error) {
	return s.all, nil
}

type discardSink struct{}

func (discardSink) Emit(*domain.AuditLogEntry) {}

// The echoprometheus middleware registers its collectors in the default
// prometheus registry, so the router is built once and the stubs are mutated
// per test.
var routerFixture struct {
	once     sync.Once
	e        *echo.Echo
	chain    *service.AuditChain
	resolver *stubResolver
	matters  *stubMatters
}

func testRouter(t *testing.T) (*echo.Echo, *service.AuditChain, *stubResolver, *stubMatters) {
	t.Helper()
	routerFixture.once.Do(func() {
		routerFixture.resolver = &stubResolver{}
		routerFixture.matters = &stubMatters{}
		routerFixture.chain = service.NewAuditChain([]byte("test-secret"), discardSink{}, zerolog.Nop())
		routerFixture.e = NewRouter(Dependencies{
			JWTSecret: "test-jwt-secret",
			Resolver:  routerFixture.resolver,
			Session:   stubSession{},
			Matters:   routerFixture.matters,
			Chain:     routerFixture.chain,
			Log:       zerolog.Nop(),
		})
	})
	return routerFixture.e, routerFixture.chain, routerFixture.resolver, routerFixture.matters
}

func bearerToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-jwt-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func TestRoutes_AuditVerifyReachableWithoutResolvableTenant(t *testing.T) {
	e, chain, resolver, _ := testRouter(t)

	// Resolution always denies; the admin verify route must not care.
	resolver.tc, resolver.err = nil, domain.ErrTenantNotFound

	entry := &domain.AuditLogEntry{ID: "req_1", Action: "GET /matters", Outcome: domain.OutcomeSuccess}
	if err := chain.Append(entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	payload, _ := json.Marshal(map[string]any{"entries": []domain.AuditLogEntry{*entry}})

	token := bearerToken(t, jwt.MapClaims{"sub": "platform-admin", "roles": []string{"super_admin"}})

	req := httptest.NewRequest(http.MethodPost, "/admin/audit/verify", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Valid {
		t.Fatalf("expected valid chain, got %s", rec.Body.String())
	}

	// Same token on a tenant-resolved route still denies.
	req = httptest.NewRequest(http.MethodGet, "/tenant", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on tenant-resolved route, got %d", rec.Code)
	}
}

func TestRoutes_MissingMatterRendersNotFound(t *testing.T) {
	e, _, resolver, matters := testRouter(t)
	resolver.tc, resolver.err = &domain.TenantContext{OrganizationID: testOrgID}, nil
	matters.all = nil

	req := httptest.NewRequest(http.MethodGet, "/matters/nope", nil)
	req.Header.Set("Authorization", bearerToken(t, jwt.MapClaims{
		"sub": "user-1", "org_id": testOrgID, "roles": []string{"attorney"},
	}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "matter not found") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRoutes_ExportCountsEveryMatter(t *testing.T) {
	e, _, resolver, matters := testRouter(t)
	resolver.tc, resolver.err = &domain.TenantContext{OrganizationID: testOrgID}, nil
	matters.all = nil
	for i := 0; i < 150; i++ {
		matters.all = append(matters.all, ports.MatterSummary{ID: "m-" + strconv.Itoa(i)})
	}

	req := httptest.NewRequest(http.MethodGet, "/export/matters", nil)
	req.Header.Set("Authorization", bearerToken(t, jwt.MapClaims{
		"sub": "user-1", "org_id": testOrgID, "roles": []string{"attorney"},
	}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Exported int `json:"exported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Exported != 150 {
		t.Fatalf("export must count every matter, got %d", resp.Exported)
	}
}
