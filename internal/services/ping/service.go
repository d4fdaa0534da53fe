// Package ping provides host reachability checks via the system ping binary.
package ping

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/fgeck/pinet/internal/models"
	"github.com/rs/zerolog"
)

// Probe parameters. The binary waits at most two seconds for a reply to a
// single packet; the invocation timeout is enforced by the caller on top
// of that, so a hung binary cannot starve the request.
const (
	probeCount     = "1"
	probeWait      = "2"
	DefaultTimeout = 5 * time.Second
)

// Service defines the interface for reachability checks.
type Service interface {
	Ping(ctx context.Context, ipAddress string) (models.PingStatus, error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command and returns its combined output.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Impl implements the Service interface.
type Impl struct {
	executor CommandExecutor
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a new ping service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &DefaultExecutor{},
		timeout:  DefaultTimeout,
		logger:   logger,
	}
}

// NewWithExecutor creates a new ping service with a custom executor and
// invocation timeout (for testing).
func NewWithExecutor(logger zerolog.Logger, executor CommandExecutor, timeout time.Duration) *Impl {
	return &Impl{
		executor: executor,
		timeout:  timeout,
		logger:   logger,
	}
}

// Ping probes ipAddress with a single ICMP echo request. A zero exit code
// reports online; a non-zero exit code or an invocation timeout reports
// offline. Only a failure to launch or read the subprocess is an error.
// The address must already be validated: it is passed verbatim as a
// process argument.
func (s *Impl) Ping(ctx context.Context, ipAddress string) (models.PingStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	output, err := s.executor.Execute(ctx, "ping", "-c", probeCount, "-W", probeWait, ipAddress)
	if err == nil {
		s.logger.Info().Str("ip", ipAddress).Msg("ping successful, host is online")
		return models.StatusOnline, nil
	}

	// The subprocess never finished within the invocation timeout. Treated
	// identically to an unreachable host, not as an error.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		s.logger.Info().Str("ip", ipAddress).Msg("ping timed out, host is offline")
		return models.StatusOffline, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		s.logger.Info().Str("ip", ipAddress).Msg("ping failed, host is offline")
		return models.StatusOffline, nil
	}

	return "", fmt.Errorf("executing ping: %w, output: %s", err, string(output))
}
