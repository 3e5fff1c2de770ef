// Package admintoken implements the operator-key-to-JWT exchange command.
package admintoken

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"cardwallet/internal/infrastructure/config"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Issue an admin API token",
		Long:  `Exchange the operator key for a short-lived admin JWT. The key is read from stdin and verified against the configured hash.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newHashCommand())

	return cmd
}

func newHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Hash an operator key for the config file",
		RunE:  runHash,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Admin.OperatorKeyHash == "" {
		return fmt.Errorf("admin.operator_key_hash is not configured")
	}

	key, err := readKey("Operator key: ")
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cfg.Admin.OperatorKeyHash), key); err != nil {
		return fmt.Errorf("operator key rejected")
	}

	expMinutes := cfg.Admin.TokenExpMinutes
	if expMinutes <= 0 {
		expMinutes = 60
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(expMinutes) * time.Minute).Unix(),
	})

	signed, err := token.SignedString([]byte(cfg.Admin.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Println(signed)
	return nil
}

func runHash(cmd *cobra.Command, args []string) error {
	key, err := readKey("Operator key to hash: ")
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword(key, 12)
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}

	fmt.Println(string(hash))
	return nil
}

// readKey reads the key without echo when stdin is a terminal, and falls
// back to a plain line read for piped input.
func readKey(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		return key, nil
	}

	var key string
	if _, err := fmt.Fscanln(os.Stdin, &key); err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return []byte(key), nil
}
