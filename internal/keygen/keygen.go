// Package keygen generates API keys and writes them into dotenv files.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// DefaultLength is the number of random bytes in a generated key.
const DefaultLength = 32

// GenerateKey returns a cryptographically secure random key of length
// random bytes, encoded URL-safe without padding.
func GenerateKey(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("key length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// UpdateEnvFile replaces the API_KEY line in the dotenv file at path with
// the given key. The file and an existing API_KEY line are required; this
// tool updates configuration, it does not create it.
func UpdateEnvFile(path, key string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading env file: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	updated := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "API_KEY=") {
			lines[i] = "API_KEY=" + key
			updated = true
		}
	}

	if !updated {
		return fmt.Errorf("no API_KEY line found in %s", path)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		return fmt.Errorf("writing env file: %w", err)
	}

	return nil
}
