package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/documents"
	"docgate-backend/internal/identity"
	"docgate-backend/internal/profiles"
	"docgate-backend/internal/shared/server/middleware"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(ctx context.Context, bearer string) (identity.Identity, error) {
	if bearer == "" {
		return identity.Identity{}, identity.ErrMissingCredential
	}
	return identity.Identity{ID: identity.ID(bearer), Email: bearer + "@example.com"}, nil
}

type adminFixture struct {
	router   *gin.Engine
	docRepo  *documents.MemoryRepo
	profRepo *profiles.MemoryRepo
}

func newAdminFixture(t *testing.T) adminFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	profRepo := profiles.NewMemoryRepo()
	profileSvc := profiles.NewService(profRepo)
	if _, err := profileSvc.Create(ctx, identity.Identity{
		ID: identity.ID("admin-1"), Email: "admin-1@example.com",
		Metadata: map[string]any{"role": "admin"},
	}, "Ada Admin", ""); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := profileSvc.Create(ctx, identity.Identity{
		ID: identity.ID("cust-1"), Email: "cust-1@example.com",
	}, "Carl Customer", ""); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	docRepo := documents.NewMemoryRepo(func(ctx context.Context, owner identity.ID) (string, string, identity.Role, error) {
		p, err := profileSvc.GetByID(ctx, owner)
		if err != nil {
			return "", "", "", err
		}
		return p.Email, p.FullName, p.Role, nil
	})
	docSvc := documents.NewService(docRepo, nil)
	svc := NewService(docSvc, profileSvc)

	router := gin.New()
	group := router.Group("/api/admin")
	group.Use(middleware.Auth(stubVerifier{}), middleware.RequireAdmin(profileSvc))
	NewHandler(svc).RegisterRoutes(group)

	return adminFixture{router: router, docRepo: docRepo, profRepo: profRepo}
}

func (f adminFixture) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	f := newAdminFixture(t)

	if rec := f.do(t, http.MethodGet, "/api/admin/documents", "cust-1", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/admin/users", "stranger", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unprovisioned identity, got %d", rec.Code)
	}
}

func TestAdminListDocumentsIncludesOwner(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	if err := f.docRepo.Create(ctx, documents.Document{
		ID:         "doc-1",
		OwnerID:    identity.ID("cust-1"),
		FileName:   "taxes.pdf",
		FileType:   "application/pdf",
		Status:     documents.StatusPending,
		UploadedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	rec := f.do(t, http.MethodGet, "/api/admin/documents", "admin-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp []documentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 document, got %d", len(resp))
	}
	if resp[0].Owner.Email != "cust-1@example.com" || resp[0].Owner.FullName != "Carl Customer" {
		t.Fatalf("unexpected owner details: %+v", resp[0].Owner)
	}
	if resp[0].Owner.Role != "customer" {
		t.Fatalf("expected owner role in listing, got %+v", resp[0].Owner)
	}
}

func TestAdminStatusUpdate(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	if err := f.docRepo.Create(ctx, documents.Document{
		ID:      "doc-1",
		OwnerID: identity.ID("cust-1"),
		Status:  documents.StatusPending,
	}); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	rec := f.do(t, http.MethodPatch, "/api/admin/documents/doc-1/status", "admin-1", `{"status":"approved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	doc, err := f.docRepo.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Status != documents.StatusApproved {
		t.Fatalf("expected approved, got %s", doc.Status)
	}

	if rec := f.do(t, http.MethodPatch, "/api/admin/documents/doc-1/status", "admin-1", `{"status":"archived"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPatch, "/api/admin/documents/ghost/status", "admin-1", `{"status":"approved"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown document, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPatch, "/api/admin/documents/doc-1/status", "admin-1", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing status, got %d", rec.Code)
	}
}

func TestAdminListUsers(t *testing.T) {
	f := newAdminFixture(t)
	f.profRepo.DocumentCounts[identity.ID("cust-1")] = 2

	rec := f.do(t, http.MethodGet, "/api/admin/users", "admin-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
	byID := map[string]userResponse{}
	for _, u := range resp {
		byID[u.ID] = u
	}
	if byID["cust-1"].DocumentCount != 2 {
		t.Fatalf("expected document count 2 for cust-1, got %+v", byID["cust-1"])
	}
	if byID["admin-1"].Role != "admin" {
		t.Fatalf("expected admin role, got %+v", byID["admin-1"])
	}
}
