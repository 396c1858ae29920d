package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Work with bearer tokens",
	}
	cmd.AddCommand(newTokenIssueCmd())
	return cmd
}

func newTokenIssueCmd() *cobra.Command {
	var (
		user       string
		role       string
		ttl        time.Duration
		signingKey string
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token with the server's signing key",
		Long: `Sign a bearer token for development and operations. The signing key must
match the server's auth.tokenSigningKey; it defaults to $EDPLAT_AUTH_TOKEN_KEY.`,
		Example: `  edplatctl token issue --user=admin --role=admin --ttl=24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if signingKey == "" {
				signingKey = os.Getenv("EDPLAT_AUTH_TOKEN_KEY")
			}
			if signingKey == "" {
				return fmt.Errorf("no signing key: pass --signing-key or set EDPLAT_AUTH_TOKEN_KEY")
			}

			r := auth.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q: must be %q or %q", role, auth.RoleUser, auth.RoleAdmin)
			}

			tok, err := auth.IssueToken(signingKey, user, r, ttl)
			if err != nil {
				return fmt.Errorf("error signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id carried in the token subject (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "Role: user or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "HMAC signing key")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark %q flag as required: %v", "user", err))
	}
	return cmd
}
