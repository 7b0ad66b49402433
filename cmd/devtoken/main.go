// 開発用のJWTを発行するコマンド。
// 本番のトークンは外部の認証基盤が発行する。ローカルでゲートウェイを試す際に使う。
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nao1215/employee-gateway/pkg/middleware"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	var (
		secret  string
		subject string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "devtoken",
		Short: "Print a signed JWT for local development",
		Long: `devtoken prints an HS256-signed JWT that the employee gateway accepts.

The secret defaults to $JWT_SECRET so the token matches a locally running gateway.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("secret is required (set --secret or JWT_SECRET)")
			}
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive: %s", ttl)
			}
			token, err := middleware.GenerateJWT(secret, subject, roles, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, token)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret used to sign the token")
	cmd.Flags().StringVar(&subject, "subject", "dev-user", "Token subject (sub claim)")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "Comma-separated roles claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
