package live

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"carpool-service/pkg/jwt"
)

func TestCorridorKeyNormalisation(t *testing.T) {
	a := corridorKey("Berlin ", "Hamburg")
	b := corridorKey("berlin", " HAMBURG")
	if a != b {
		t.Errorf("corridor keys differ: %q vs %q", a, b)
	}
	if a == corridorKey("Hamburg", "Berlin") {
		t.Error("direction must matter")
	}
}

func TestBroadcastWithoutSubscribers(t *testing.T) {
	h := NewHub()
	// must be a no-op, not a panic
	h.BroadcastTrip("Berlin", "Hamburg", map[string]string{"id": "t1"})
}

func TestHandleWSAuth(t *testing.T) {
	if err := jwt.Init("test-secret"); err != nil {
		t.Fatal(err)
	}
	h := NewHub()

	// No token
	rec := httptest.NewRecorder()
	h.HandleWS(rec, httptest.NewRequest("GET", "/search?origin=a&destination=b", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// A refresh token is not a session credential
	_, refresh, err := jwt.GeneratePair("u1", "a@b.co", jwt.RolePassenger)
	if err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h.HandleWS(rec, httptest.NewRequest("GET", "/search?origin=a&destination=b&token="+refresh, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with refresh token, got %d", rec.Code)
	}

	// Access token but missing corridor params
	access, _, err := jwt.GeneratePair("u1", "a@b.co", jwt.RolePassenger)
	if err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h.HandleWS(rec, httptest.NewRequest("GET", "/search?token="+access, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without corridor, got %d", rec.Code)
	}
}

func TestRemoveConnDropsEmptyCorridor(t *testing.T) {
	h := NewHub()
	key := corridorKey("a", "b")
	c := &safeConn{}
	h.conns[key] = []*safeConn{c}

	h.removeConn(key, c)
	if _, ok := h.conns[key]; ok {
		t.Error("empty corridor entry must be deleted")
	}
}
