package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	smokeURL    string
	smokeAPIKey string
	smokePingIP string
	smokeWOLMAC string
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Smoke-test a running pinet instance",
	Long: `Run a remote smoke test against a running pinet instance: health
check, authentication rejection, ping, input validation and unknown-route
handling. A Wake-on-LAN packet is only actually sent when --wol-mac is given.`,
	RunE: runSmoke,
}

func init() {
	smokeCmd.Flags().StringVar(&smokeURL, "url", "", "base URL of the instance, e.g. http://192.168.1.50:5000 (required)")
	smokeCmd.Flags().StringVar(&smokeAPIKey, "api-key", "", "API key of the instance (required)")
	smokeCmd.Flags().StringVar(&smokePingIP, "ping-ip", "8.8.8.8", "target IP address for the ping check")
	smokeCmd.Flags().StringVar(&smokeWOLMAC, "wol-mac", "", "target MAC address for a real WoL send (optional)")
	_ = smokeCmd.MarkFlagRequired("url")
	_ = smokeCmd.MarkFlagRequired("api-key")
}

// smokeCheck is one request/expectation pair of the suite.
type smokeCheck struct {
	name   string
	method string
	path   string
	apiKey string
	body   string
	verify func(status int, body map[string]any) error
}

func runSmoke(cmd *cobra.Command, args []string) error {
	base := strings.TrimRight(smokeURL, "/")
	client := &http.Client{Timeout: 15 * time.Second}

	checks := []smokeCheck{
		{
			name:   "health check",
			method: http.MethodGet,
			path:   "/",
			verify: func(status int, body map[string]any) error {
				if status != http.StatusOK {
					return fmt.Errorf("expected 200, got %d", status)
				}
				if body["service"] != "PiNet API" || body["status"] != "running" {
					return fmt.Errorf("unexpected health body: %v", body)
				}
				return nil
			},
		},
		{
			name:   "ping without key rejected",
			method: http.MethodGet,
			path:   "/ping/" + smokePingIP,
			verify: expectStatus(http.StatusUnauthorized, "API key required"),
		},
		{
			name:   "ping with wrong key rejected",
			method: http.MethodGet,
			path:   "/ping/" + smokePingIP,
			apiKey: smokeAPIKey + "-wrong",
			verify: expectStatus(http.StatusUnauthorized, "Invalid API key"),
		},
		{
			name:   "ping target host",
			method: http.MethodGet,
			path:   "/ping/" + smokePingIP,
			apiKey: smokeAPIKey,
			verify: func(status int, body map[string]any) error {
				if status != http.StatusOK {
					return fmt.Errorf("expected 200, got %d", status)
				}
				if s := body["status"]; s != "online" && s != "offline" {
					return fmt.Errorf("unexpected ping status: %v", s)
				}
				return nil
			},
		},
		{
			name:   "invalid IP rejected",
			method: http.MethodGet,
			path:   "/ping/not-an-ip",
			apiKey: smokeAPIKey,
			verify: expectStatus(http.StatusBadRequest, "Invalid IP address format."),
		},
		{
			name:   "wol without body rejected",
			method: http.MethodPost,
			path:   "/wol",
			apiKey: smokeAPIKey,
			verify: expectStatus(http.StatusBadRequest, "Request body must be JSON"),
		},
		{
			name:   "wol missing field rejected",
			method: http.MethodPost,
			path:   "/wol",
			apiKey: smokeAPIKey,
			body:   `{}`,
			verify: expectStatus(http.StatusBadRequest, "Missing mac_address field in request body"),
		},
		{
			name:   "invalid MAC rejected",
			method: http.MethodPost,
			path:   "/wol",
			apiKey: smokeAPIKey,
			body:   `{"mac_address":"bad"}`,
			verify: expectStatus(http.StatusBadRequest, "Invalid MAC address format."),
		},
		{
			name:   "unknown route yields 404",
			method: http.MethodGet,
			path:   "/bogus",
			verify: expectStatus(http.StatusNotFound, "Endpoint not found"),
		},
	}

	if smokeWOLMAC != "" {
		checks = append(checks, smokeCheck{
			name:   "wake-on-lan send",
			method: http.MethodPost,
			path:   "/wol",
			apiKey: smokeAPIKey,
			body:   fmt.Sprintf(`{"mac_address":%q}`, smokeWOLMAC),
			verify: func(status int, body map[string]any) error {
				if status != http.StatusOK {
					return fmt.Errorf("expected 200, got %d", status)
				}
				msg, _ := body["message"].(string)
				if !strings.Contains(msg, smokeWOLMAC) {
					return fmt.Errorf("message does not name the MAC: %q", msg)
				}
				return nil
			},
		})
	}

	failed := 0
	for _, check := range checks {
		if err := runSmokeCheck(client, base, check); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("FAIL")
			failed++
			continue
		}
		log.Info().Str("check", check.name).Msg("PASS")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}

	log.Info().Int("checks", len(checks)).Msg("all smoke checks passed")
	return nil
}

func runSmokeCheck(client *http.Client, base string, check smokeCheck) error {
	var reader io.Reader
	if check.body != "" {
		reader = bytes.NewReader([]byte(check.body))
	}

	req, err := http.NewRequest(check.method, base+check.path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if check.apiKey != "" {
		req.Header.Set("X-API-Key", check.apiKey)
	}
	if check.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	return check.verify(resp.StatusCode, body)
}

// expectStatus verifies a fixed status code and error message.
func expectStatus(code int, message string) func(int, map[string]any) error {
	return func(status int, body map[string]any) error {
		if status != code {
			return fmt.Errorf("expected %d, got %d", code, status)
		}
		if body["message"] != message {
			return fmt.Errorf("expected message %q, got %v", message, body["message"])
		}
		return nil
	}
}
