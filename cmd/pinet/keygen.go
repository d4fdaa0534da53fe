package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fgeck/pinet/internal/keygen"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	keygenLength int
	keygenUpdate bool
	keygenYes    bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new API key",
	Long: `Generate a cryptographically secure random API key.

With --update the API_KEY line of the dotenv file (--env-file, default .env)
is replaced in place; the file and the line must already exist. Restart the
server afterwards to pick up the new key.`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().IntVar(&keygenLength, "length", keygen.DefaultLength, "number of random bytes in the key")
	keygenCmd.Flags().BoolVar(&keygenUpdate, "update", false, "write the key into the env file")
	keygenCmd.Flags().BoolVarP(&keygenYes, "yes", "y", false, "skip the confirmation prompt")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	key, err := keygen.GenerateKey(keygenLength)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate API key")
		return err
	}

	fmt.Println("Generated API key:")
	fmt.Printf("  %s\n", key)

	if !keygenUpdate {
		fmt.Println()
		fmt.Println("Run with --update to write it into your env file.")
		return nil
	}

	path := envFile
	if path == "" {
		path = ".env"
	}

	if !keygenYes {
		fmt.Println()
		fmt.Printf("This will replace the existing API_KEY in %s. Continue? (y/n): ", path)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	if err := keygen.UpdateEnvFile(path, key); err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to update env file")
		return err
	}

	fmt.Println()
	fmt.Printf("API key updated in %s\n", path)
	fmt.Println("Restart the pinet service to apply the new key.")
	return nil
}
