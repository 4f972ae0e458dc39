// Command healthcheck probes the local SpamWall health endpoint and exits
// non-zero unless it reports ok. It is used as the container HEALTHCHECK.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"
)

const probeTimeout = 2 * time.Second

type healthBody struct {
	Status string `json:"status"`
}

func main() {
	addr := normalizeAddr(os.Getenv("SPAMWALL_LISTEN_ADDR"))
	os.Exit(check(fmt.Sprintf("http://%s/api/v1/health", addr)))
}

func check(url string) int {
	client := &http.Client{Timeout: probeTimeout}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	var body healthBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil || body.Status != "ok" {
		return 1
	}

	return 0
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. Containers bind 0.0.0.0 but the healthcheck runs inside
// the same container, so loopback is reachable and more correct.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
