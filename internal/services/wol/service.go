// Package wol provides Wake-on-LAN operations.
package wol

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/fgeck/pinet/internal/models"
	"github.com/fgeck/pinet/internal/validate"
	"github.com/mdlayher/wol"
	"github.com/rs/zerolog"
)

// Service defines the interface for Wake-on-LAN operations.
type Service interface {
	Wake(ctx context.Context, macAddress string) error
}

// Client wraps the wol library for mocking.
type Client interface {
	Wake(addr string, mac net.HardwareAddr) error
}

// DefaultClient is the default implementation using mdlayher/wol.
type DefaultClient struct{}

// Wake sends a magic packet for mac to the given broadcast address.
func (c *DefaultClient) Wake(addr string, mac net.HardwareAddr) error {
	client, err := wol.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create WOL client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Wake(addr, mac); err != nil {
		return fmt.Errorf("failed to send WOL packet: %w", err)
	}

	return nil
}

// Impl implements the WOL Service interface.
type Impl struct {
	client   Client
	settings models.WOLSettings
	logger   zerolog.Logger
}

// New creates a new WOL service.
func New(logger zerolog.Logger, settings models.WOLSettings) *Impl {
	return &Impl{
		client:   &DefaultClient{},
		settings: settings,
		logger:   logger,
	}
}

// NewWithClient creates a new WOL service with a custom client (for testing).
func NewWithClient(logger zerolog.Logger, settings models.WOLSettings, client Client) *Impl {
	return &Impl{
		client:   client,
		settings: settings,
		logger:   logger,
	}
}

// Wake broadcasts a magic packet for macAddress. The send is fire-and-forget:
// success only certifies local transmission, since the target cannot
// acknowledge. macAddress must already be validated; bare 12-hex layouts are
// normalized before parsing.
func (s *Impl) Wake(ctx context.Context, macAddress string) error {
	mac, err := net.ParseMAC(validate.NormalizeMAC(macAddress))
	if err != nil {
		return fmt.Errorf("invalid MAC address %q: %w", macAddress, err)
	}

	addr := net.JoinHostPort(s.settings.BroadcastIP, strconv.Itoa(s.settings.Port))

	s.logger.Info().
		Str("mac", mac.String()).
		Str("broadcast", addr).
		Msg("sending WOL packet")

	if err := s.client.Wake(addr, mac); err != nil {
		return err
	}

	s.logger.Info().Str("mac", mac.String()).Msg("WOL packet sent successfully")
	return nil
}
