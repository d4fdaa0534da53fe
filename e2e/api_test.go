//go:build e2e

package e2e

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fgeck/pinet/internal/api"
	"github.com/fgeck/pinet/internal/models"
	"github.com/fgeck/pinet/internal/services/ping"
	"github.com/fgeck/pinet/internal/services/wol"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "e2e-test-key"

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// fakeExecutor stands in for the ping binary so the flow test does not
// depend on ICMP privileges on the CI host.
type fakeExecutor struct {
	err error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, f.err
}

// sinkClient records magic packets instead of broadcasting them.
type sinkClient struct {
	macs []net.HardwareAddr
}

func (c *sinkClient) Wake(addr string, mac net.HardwareAddr) error {
	c.macs = append(c.macs, mac)
	return nil
}

func newTestInstance(t *testing.T, pingErr error, sink *sinkClient) *httptest.Server {
	t.Helper()

	cfg := models.ServerConfig{
		APIKey: testKey,
		Port:   5000,
		WOL:    models.WOLSettings{BroadcastIP: "255.255.255.255", Port: 9},
	}
	pingSvc := ping.NewWithExecutor(testLogger(), &fakeExecutor{err: pingErr}, ping.DefaultTimeout)
	wolSvc := wol.NewWithClient(testLogger(), cfg.WOL, sink)

	srv := httptest.NewServer(api.NewWithServices(cfg, testLogger(), pingSvc, wolSvc).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, apiKey string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestFullFlow_E2E(t *testing.T) {
	sink := &sinkClient{}
	srv := newTestInstance(t, nil, sink)

	// Health, no key required.
	resp := get(t, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Protected route without a key.
	resp = get(t, srv.URL+"/ping/8.8.8.8", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	// Ping with the key.
	resp = get(t, srv.URL+"/ping/8.8.8.8", testKey)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Contains(t, string(raw), `"online"`)

	// Wake a device; the sink must record exactly one packet.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/wol",
		strings.NewReader(`{"mac_address":"AA:BB:CC:DD:EE:FF"}`))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.Len(t, sink.macs, 1)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", sink.macs[0].String())

	// Unknown route.
	resp = get(t, srv.URL+"/bogus", testKey)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestOfflineHost_E2E(t *testing.T) {
	srv := newTestInstance(t, &exec.ExitError{ProcessState: &os.ProcessState{}}, &sinkClient{})

	resp := get(t, srv.URL+"/ping/10.255.255.1", testKey)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Contains(t, string(raw), `"offline"`)
}

// Real ping test - only run if explicitly configured.
func TestRealPing_E2E(t *testing.T) {
	ip := os.Getenv("TEST_PING_IP")
	if ip == "" {
		t.Skip("TEST_PING_IP not set")
	}

	svc := ping.New(testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := svc.Ping(ctx, ip)

	require.NoError(t, err)
	assert.Contains(t, []models.PingStatus{models.StatusOnline, models.StatusOffline}, status)
}

// Real WOL test - only run if explicitly configured.
func TestRealWOL_E2E(t *testing.T) {
	mac := os.Getenv("TEST_WOL_MAC")
	if mac == "" {
		t.Skip("TEST_WOL_MAC not set")
	}

	svc := wol.New(testLogger(), models.WOLSettings{BroadcastIP: "255.255.255.255", Port: 9})

	err := svc.Wake(context.Background(), mac)

	require.NoError(t, err)
}
