// Command testserver runs a mock login server for exercising credprobe.
//
// Usage:
//
//	testserver [flags]
//
// Flags:
//
//	-port         Port to listen on (default: 8080)
//	-host         Host to bind to (default: localhost)
//	-user         Valid credential as user:pass (repeatable)
//	-fail-status  Status code for rejected logins (default: 200)
//	-delay        Artificial delay per login response
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"credprobe/testserver"
)

type userList []string

func (u *userList) String() string { return strings.Join(*u, ",") }

func (u *userList) Set(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("expected user:pass, got %q", value)
	}
	*u = append(*u, value)
	return nil
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	host := flag.String("host", "localhost", "host to bind to")
	failStatus := flag.Int("fail-status", 200, "status code for rejected logins")
	delay := flag.Duration("delay", 0, "artificial delay per login response")
	var users userList
	flag.Var(&users, "user", "valid credential as user:pass (repeatable)")
	flag.Parse()

	valid := make(map[string]string, len(users))
	for _, u := range users {
		name, pass, _ := strings.Cut(u, ":")
		valid[name] = pass
	}
	if len(valid) == 0 {
		valid["admin"] = "secret123"
	}

	server := testserver.NewServer(testserver.Config{
		Valid:      valid,
		FailStatus: *failStatus,
		Delay:      *delay,
	})
	addr := fmt.Sprintf("%s:%d", *host, *port)

	fmt.Println("credprobe Test Server")
	fmt.Println("=====================")
	fmt.Printf("Listening on http://%s\n\n", addr)
	fmt.Println("Endpoints:")
	fmt.Println("  POST /auth/login          - Mock login (form or JSON body)")
	fmt.Println("  GET  /health              - Health check")
	fmt.Println("  GET  /status/{code}       - Return specific status code")
	fmt.Println("  GET  /delay/{ms}          - Delay response by milliseconds")
	fmt.Printf("\nValid users: %d, rejected logins return %d\n\n", len(valid), *failStatus)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Printf("\nShutting down after %d login attempts\n", server.Attempts())
		httpServer.SetKeepAlivesEnabled(false)
		if err := httpServer.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
