package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fgeck/pinet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LoadReader_MinimalConfig(t *testing.T) {
	env := `API_KEY=supersecret`

	parser := NewParser()
	cfg, err := parser.LoadReader(env)

	require.NoError(t, err)
	assert.Equal(t, "supersecret", cfg.APIKey)
	// Check defaults
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "255.255.255.255", cfg.WOL.BroadcastIP)
	assert.Equal(t, 9, cfg.WOL.Port)
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	env := `
API_KEY=supersecret
API_PORT=8080
WOL_BROADCAST_IP=192.168.1.255
WOL_PORT=7
`
	parser := NewParser()
	cfg, err := parser.LoadReader(env)

	require.NoError(t, err)
	assert.Equal(t, "supersecret", cfg.APIKey)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "192.168.1.255", cfg.WOL.BroadcastIP)
	assert.Equal(t, 7, cfg.WOL.Port)
}

func TestParser_LoadReader_MissingAPIKey(t *testing.T) {
	env := `API_PORT=8080`

	parser := NewParser()
	_, err := parser.LoadReader(env)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY is required")
}

func TestParser_LoadReader_InvalidPort(t *testing.T) {
	env := `
API_KEY=supersecret
API_PORT=70000
`
	parser := NewParser()
	_, err := parser.LoadReader(env)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_PORT must be between")
}

func TestParser_Load_FromEnvironment(t *testing.T) {
	t.Setenv("API_KEY", "env_secret")
	t.Setenv("API_PORT", "9000")

	parser := NewParser()
	cfg, err := parser.Load()

	require.NoError(t, err)
	assert.Equal(t, "env_secret", cfg.APIKey)
	assert.Equal(t, 9000, cfg.Port)
}

func TestParser_Load_EnvironmentMissingKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	parser := NewParser()
	_, err := parser.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY is required")
}

func TestParser_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "API_KEY=filesecret\nAPI_PORT=5050\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	parser := NewParser()
	cfg, err := parser.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "filesecret", cfg.APIKey)
	assert.Equal(t, 5050, cfg.Port)
}

func TestParser_LoadFile_NotFound(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestParser_LoadFile_EnvironmentWins(t *testing.T) {
	t.Setenv("API_PORT", "6000")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "API_KEY=filesecret\nAPI_PORT=5050\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	parser := NewParser()
	cfg, err := parser.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *models.ServerConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
			errMsg:  "configuration is nil",
		},
		{
			name: "missing api key",
			cfg: &models.ServerConfig{
				Port: 5000,
				WOL:  models.WOLSettings{BroadcastIP: "255.255.255.255", Port: 9},
			},
			wantErr: true,
			errMsg:  "API_KEY is required",
		},
		{
			name: "port zero",
			cfg: &models.ServerConfig{
				APIKey: "secret",
				WOL:    models.WOLSettings{BroadcastIP: "255.255.255.255", Port: 9},
			},
			wantErr: true,
			errMsg:  "API_PORT must be between",
		},
		{
			name: "wol port out of range",
			cfg: &models.ServerConfig{
				APIKey: "secret",
				Port:   5000,
				WOL:    models.WOLSettings{BroadcastIP: "255.255.255.255", Port: 100000},
			},
			wantErr: true,
			errMsg:  "WOL_PORT must be between",
		},
		{
			name: "empty broadcast ip",
			cfg: &models.ServerConfig{
				APIKey: "secret",
				Port:   5000,
				WOL:    models.WOLSettings{Port: 9},
			},
			wantErr: true,
			errMsg:  "WOL_BROADCAST_IP must not be empty",
		},
		{
			name: "valid config",
			cfg: &models.ServerConfig{
				APIKey: "secret",
				Port:   5000,
				WOL:    models.WOLSettings{BroadcastIP: "255.255.255.255", Port: 9},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
