package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/service"
)

type stubSessionReader struct {
	session *domain.Session
	loading bool
}

func (s *stubSessionReader) Current() *domain.Session { return s.session.Clone() }
func (s *stubSessionReader) IsLoading() bool          { return s.loading }

func TestPageHandler_RenderGuardedView(t *testing.T) {
	e := newEcho()
	unread := &stubNotifications{view: service.NotificationView{Unread: 12}}
	handler := NewPageHandler(&stubSessionReader{}, unread)
	view, _ := domain.NewRouteTable().Lookup("/patient-dashboard/appointments")

	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodGet, view.Path, nil), rec))

	if err := handler.Render(view)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var out pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.View != view.Name || out.User == nil || out.Badge != "9+" || out.Unread != 12 {
		t.Fatalf("unexpected page %+v", out)
	}
	if len(out.Navigation) == 0 {
		t.Fatalf("expected navigation entries")
	}
}

func TestPageHandler_LoginViewCarriesSafeFrom(t *testing.T) {
	e := newEcho()
	handler := NewPageHandler(&stubSessionReader{}, &stubNotifications{})
	view, _ := domain.NewRouteTable().Lookup(domain.PathLogin)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/login?from=%2Fsettings", nil), rec)
	if err := handler.Render(view)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var out pageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.View != "login" || out.From != "/settings" || out.User != nil {
		t.Fatalf("unexpected login page %+v", out)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/login?from=https%3A%2F%2Fevil.example.com", nil), rec)
	_ = handler.Render(view)(c)
	out = pageResponse{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.From != "" {
		t.Fatalf("expected unsafe from to be dropped, got %q", out.From)
	}
}

func TestPageHandler_LoginViewRedirectsSignedInUser(t *testing.T) {
	e := newEcho()
	handler := NewPageHandler(&stubSessionReader{}, &stubNotifications{})
	view, _ := domain.NewRouteTable().Lookup(domain.PathLogin)

	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/login", nil), rec))
	if err := handler.Render(view)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/patient-dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestPageHandler_Root(t *testing.T) {
	e := newEcho()

	cases := []struct {
		name     string
		sessions *stubSessionReader
		code     int
		location string
	}{
		{"loading", &stubSessionReader{loading: true}, http.StatusServiceUnavailable, ""},
		{"logged out", &stubSessionReader{}, http.StatusFound, domain.PathLogin},
		{"doctor", &stubSessionReader{session: &domain.Session{
			User:  &domain.User{ID: "d1", Email: "d@example.com", Role: domain.RoleDoctor},
			Token: "tok",
		}}, http.StatusFound, "/doctor-dashboard"},
	}
	for _, tc := range cases {
		handler := NewPageHandler(tc.sessions, &stubNotifications{})
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		if err := handler.Root(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.code || rec.Header().Get(echo.HeaderLocation) != tc.location {
			t.Fatalf("%s: got %d %q", tc.name, rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
	}
}

func TestPageHandler_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewPageHandler(&stubSessionReader{}, &stubNotifications{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/does-not-exist", nil), rec)
	if err := handler.NotFound(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var out pageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if rec.Code != http.StatusNotFound || out.View != viewNotFound || out.Path != "/does-not-exist" {
		t.Fatalf("unexpected 404 page %d %+v", rec.Code, out)
	}
}
