package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func initTest(t *testing.T) {
	t.Helper()
	if err := Init("test-secret"); err != nil {
		t.Fatal(err)
	}
}

func TestGeneratePairRoundTrip(t *testing.T) {
	initTest(t)

	access, refresh, err := GeneratePair("u1", "a@b.co", RoleDriver)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := Validate(access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "u1" || claims.Role != RoleDriver || claims.TokenType != "access" {
		t.Errorf("unexpected access claims: %+v", claims)
	}

	rc, err := ValidateRefresh(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if rc.TokenType != "refresh" {
		t.Errorf("expected refresh token type, got %q", rc.TokenType)
	}
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	initTest(t)

	access, _, err := GeneratePair("u1", "a@b.co", RolePassenger)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateRefresh(access); err == nil {
		t.Error("access token must not pass refresh validation")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	initTest(t)
	if _, err := Validate("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestRequireAuth(t *testing.T) {
	initTest(t)

	handler := OptionalAuth(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	// No token
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Valid access token
	access, _, _ := GeneratePair("u1", "a@b.co", RoleDriver)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rec.Code)
	}

	// Refresh token must not grant access
	_, refresh, _ := GeneratePair("u1", "a@b.co", RoleDriver)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with refresh token, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	initTest(t)

	handler := OptionalAuth(RequireRole(RoleDriver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	access, _, _ := GeneratePair("p1", "p@b.co", RolePassenger)
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for passenger on driver route, got %d", rec.Code)
	}

	access, _, _ = GeneratePair("d1", "d@b.co", RoleDriver)
	req = httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for driver, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 unauthenticated, got %d", rec.Code)
	}
}
