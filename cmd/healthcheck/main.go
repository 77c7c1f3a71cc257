// Command healthcheck exits 0 when the phone book server answers GET /health
// with 200, and 1 otherwise.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	httphandler "github.com/ericfisherdev/phonebook/internal/adapter/driving/http"
	"github.com/ericfisherdev/phonebook/internal/config"
)

// checkTimeout bounds the whole check, including connection setup.
const checkTimeout = 2 * time.Second

func main() {
	os.Exit(check(healthURL(config.LoadListenAddr())))
}

// check returns 0 when url answers 200 with status "ok" within checkTimeout.
func check(url string) int {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 1
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	var body httphandler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "ok" {
		return 1
	}

	return 0
}

// healthURL builds the /health URL for the server's listen address. The check
// runs next to the server, so an empty or bind-all host becomes loopback and
// an unparsable address falls back to the server default.
func healthURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		host, port, _ = net.SplitHostPort(config.DefaultListenAddr)
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}

	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port))
}
