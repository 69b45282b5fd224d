package testserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(cfg).Handler())
	t.Cleanup(server.Close)
	return server
}

func postForm(t *testing.T, target, username, password string) (*http.Response, string) {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := http.PostForm(target+"/auth/login", form)
	if err != nil {
		t.Fatalf("posting form: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestLogin_ValidCredentials(t *testing.T) {
	server := newTestServer(t, Config{Valid: map[string]string{"admin": "secret"}})

	resp, body := postForm(t, server.URL, "admin", "secret")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body != DefaultSuccessBody {
		t.Errorf("expected success body, got %q", body)
	}
}

func TestLogin_InvalidCredentialsAmbiguousMode(t *testing.T) {
	server := newTestServer(t, Config{Valid: map[string]string{"admin": "secret"}})

	// Default mode returns 200 with a failure body, like the ambiguous
	// login forms the indicator matching exists for.
	resp, body := postForm(t, server.URL, "admin", "wrong")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body != DefaultFailureBody {
		t.Errorf("expected failure body, got %q", body)
	}
}

func TestLogin_FailStatusMode(t *testing.T) {
	server := newTestServer(t, Config{
		Valid:      map[string]string{"admin": "secret"},
		FailStatus: http.StatusUnauthorized,
	})

	resp, _ := postForm(t, server.URL, "guest", "guess")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogin_JSONBody(t *testing.T) {
	server := newTestServer(t, Config{Valid: map[string]string{"admin": "secret"}})

	resp, err := http.Post(server.URL+"/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"secret"}`))
	if err != nil {
		t.Fatalf("posting JSON: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if string(body) != DefaultSuccessBody {
		t.Errorf("expected success body, got %q", body)
	}
}

func TestLogin_InvalidJSONBody(t *testing.T) {
	server := newTestServer(t, Config{})

	resp, err := http.Post(server.URL+"/auth/login", "application/json",
		strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("posting JSON: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin_CustomFieldNames(t *testing.T) {
	server := newTestServer(t, Config{
		Valid:         map[string]string{"admin": "secret"},
		UsernameField: "email",
		PasswordField: "pass",
	})

	form := url.Values{"email": {"admin"}, "pass": {"secret"}}
	resp, err := http.PostForm(server.URL+"/auth/login", form)
	if err != nil {
		t.Fatalf("posting form: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != DefaultSuccessBody {
		t.Errorf("expected success with custom fields, got %q", body)
	}
}

func TestLogin_RejectsGET(t *testing.T) {
	server := newTestServer(t, Config{})

	resp, err := http.Get(server.URL + "/auth/login")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestLogin_CountsAttempts(t *testing.T) {
	srv := NewServer(Config{Valid: map[string]string{"admin": "secret"}})
	server := httptest.NewServer(srv.Handler())
	defer server.Close()

	for i := 0; i < 3; i++ {
		form := url.Values{"username": {"x"}, "password": {"y"}}
		resp, err := http.PostForm(server.URL+"/auth/login", form)
		if err != nil {
			t.Fatalf("posting form: %v", err)
		}
		resp.Body.Close()
	}
	if srv.Attempts() != 3 {
		t.Errorf("expected 3 attempts, got %d", srv.Attempts())
	}
}

func TestStatusEndpoint(t *testing.T) {
	server := newTestServer(t, Config{})

	resp, err := http.Get(server.URL + "/status/418")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 418 {
		t.Errorf("expected 418, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/status/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad code, got %d", resp.StatusCode)
	}
}
