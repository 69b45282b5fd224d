// Package testserver provides a mock login endpoint for exercising credprobe.
package testserver

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
)

// Defaults mimic the usual ambiguous login form: 200 either way, only the
// page text tells success from failure.
const (
	DefaultSuccessBody = "Login successful. Welcome back!"
	DefaultFailureBody = "Invalid username or password."
)

// Config controls how the mock endpoint behaves.
type Config struct {
	// Valid maps accepted usernames to their passwords.
	Valid map[string]string

	// Bodies returned for accepted and rejected logins.
	SuccessBody string
	FailureBody string

	// FailStatus is the status for rejected logins. 0 means 200, the
	// indicator-only case; set 401 to emulate proper HTTP semantics.
	FailStatus int

	// Delay is applied to every login response.
	Delay time.Duration

	// Form field names, "username"/"password" when empty.
	UsernameField string
	PasswordField string
}

func (c Config) withDefaults() Config {
	if c.SuccessBody == "" {
		c.SuccessBody = DefaultSuccessBody
	}
	if c.FailureBody == "" {
		c.FailureBody = DefaultFailureBody
	}
	if c.FailStatus == 0 {
		c.FailStatus = http.StatusOK
	}
	if c.UsernameField == "" {
		c.UsernameField = "username"
	}
	if c.PasswordField == "" {
		c.PasswordField = "password"
	}
	return c
}

// Server is a configurable mock login server.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	attempts atomic.Int64
}

// NewServer creates a server with all endpoints registered.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg: cfg.withDefaults(),
		mux: http.NewServeMux(),
	}
	s.registerHandlers()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Attempts returns how many login requests the server has received.
func (s *Server) Attempts() int64 {
	return s.attempts.Load()
}

func (s *Server) registerHandlers() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/status/", s.handleStatus)
	s.mux.HandleFunc("/delay/", s.handleDelay)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// handleLogin checks submitted credentials against the configured valid
// set. Accepts form-encoded and JSON bodies.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.attempts.Add(1)

	if s.cfg.Delay > 0 {
		time.Sleep(s.cfg.Delay)
	}

	username, password, err := s.extractCredentials(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if expected, ok := s.cfg.Valid[username]; ok && expected == password {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, s.cfg.SuccessBody)
		return
	}
	w.WriteHeader(s.cfg.FailStatus)
	fmt.Fprint(w, s.cfg.FailureBody)
}

func (s *Server) extractCredentials(r *http.Request) (username, password string, err error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return "", "", fmt.Errorf("reading body: %w", err)
		}
		if !gjson.ValidBytes(body) {
			return "", "", fmt.Errorf("invalid JSON body")
		}
		username = gjson.GetBytes(body, s.cfg.UsernameField).String()
		password = gjson.GetBytes(body, s.cfg.PasswordField).String()
		return username, password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("parsing form: %w", err)
	}
	return r.PostFormValue(s.cfg.UsernameField), r.PostFormValue(s.cfg.PasswordField), nil
}

// handleStatus returns the specified HTTP status code.
// Example: GET /status/404 returns 404 Not Found
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/status/")
	code, err := strconv.Atoi(path)
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
	fmt.Fprintf(w, "%d %s", code, http.StatusText(code))
}

// handleDelay waits for the specified duration before responding.
// Example: GET /delay/100 waits 100ms
func (s *Server) handleDelay(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/delay/")
	ms, err := strconv.Atoi(path)
	if err != nil || ms < 0 {
		http.Error(w, "invalid delay", http.StatusBadRequest)
		return
	}

	time.Sleep(time.Duration(ms) * time.Millisecond)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "delayed %dms", ms)
}
