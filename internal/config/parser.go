// Package config provides configuration loading for the pinet server.
//
// Configuration comes from an optional dotenv file merged with process
// environment variables; the environment wins on conflict, so a supervisor
// unit can override a value without editing the file.
package config

import (
	"fmt"
	"strings"

	"github.com/fgeck/pinet/internal/models"
	"github.com/spf13/viper"
)

// Defaults applied when a key is absent from both the file and the
// environment.
const (
	DefaultPort        = 5000
	DefaultBroadcastIP = "255.255.255.255"
	DefaultWOLPort     = 9
)

// Parser handles configuration loading.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetDefault("API_PORT", DefaultPort)
	v.SetDefault("WOL_BROADCAST_IP", DefaultBroadcastIP)
	v.SetDefault("WOL_PORT", DefaultWOLPort)
	return &Parser{v: v}
}

// LoadFile loads configuration from a dotenv file path, merged with the
// process environment.
func (p *Parser) LoadFile(path string) (*models.ServerConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// Load loads configuration from the process environment only.
func (p *Parser) Load() (*models.ServerConfig, error) {
	return p.parse()
}

// LoadReader loads configuration from dotenv content (useful for testing).
func (p *Parser) LoadReader(content string) (*models.ServerConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.ServerConfig, error) {
	cfg := &models.ServerConfig{
		APIKey: p.v.GetString("API_KEY"),
		Port:   p.v.GetInt("API_PORT"),
		WOL: models.WOLSettings{
			BroadcastIP: p.v.GetString("WOL_BROADCAST_IP"),
			Port:        p.v.GetInt("WOL_PORT"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate performs validation on the loaded configuration. The process
// must refuse to start without an API key.
func Validate(cfg *models.ServerConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("API_PORT must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.WOL.BroadcastIP == "" {
		return fmt.Errorf("WOL_BROADCAST_IP must not be empty")
	}

	if cfg.WOL.Port < 1 || cfg.WOL.Port > 65535 {
		return fmt.Errorf("WOL_PORT must be between 1 and 65535, got %d", cfg.WOL.Port)
	}

	return nil
}
