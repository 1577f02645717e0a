// Command token provisions an API account on the node's database and
// prints a token for it.
//
//	token -d postgres://... -u ivy -n ivy_plains -p view_transfer -p change_transfer
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/dpnode/internal/server"
	"github.com/dmitrijs2005/dpnode/internal/server/config"
	"github.com/dmitrijs2005/dpnode/internal/server/services"
	"github.com/spf13/cobra"
)

// provisionFunc ensures the account exists and returns a token for it.
type provisionFunc func(ctx context.Context, acct services.Account) (string, error)

func newRootCmd(out io.Writer, provision provisionFunc) *cobra.Command {
	var acct services.Account

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Provision an API user and print a token for it",
		Long: `Create the user when missing, grant permission codenames, bind it to a
node and print a fresh API token.

Server flags (-d, -s, -t, -c) are read from the same command line.

Examples:
  # Node operator allowed to view and update its transfers
  token -d postgres://... -u ivy -n ivy_plains -p view_transfer -p change_transfer

  # Superuser without a node
  token -d postgres://... -u admin --superuser`,
		Args: cobra.NoArgs,
		// Server configuration flags are parsed by the config package.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := provision(cmd.Context(), acct)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, token)
			return err
		},
	}

	cmd.Flags().StringVarP(&acct.UserName, "user", "u", "", "username to provision")
	cmd.Flags().StringVarP(&acct.Node, "node", "n", "", "node namespace the user acts for")
	cmd.Flags().StringSliceVarP(&acct.Codenames, "perm", "p", nil, "permission codename (repeatable or comma separated)")
	cmd.Flags().BoolVarP(&acct.IsSuperuser, "superuser", "S", false, "create the user as superuser")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func provisionWith(cfg *config.Config) provisionFunc {
	return func(ctx context.Context, acct services.Account) (string, error) {
		if cfg.DatabaseDSN == "" {
			return "", errors.New("a database DSN (-d) is required")
		}

		app, err := server.NewApp(ctx, cfg)
		if err != nil {
			return "", err
		}
		defer app.Close()

		u, err := app.Identity().EnsureUser(ctx, acct)
		if err != nil {
			return "", err
		}
		return app.Identity().IssueToken(u.ID)
	}
}

func main() {
	cfg := config.LoadConfig()

	if err := newRootCmd(os.Stdout, provisionWith(cfg)).ExecuteContext(context.Background()); err != nil {
		log.Fatalf("token: %v", err)
	}
}
