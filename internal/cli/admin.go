package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nccmultimedia/attendance-server/internal/auth"
	"github.com/nccmultimedia/attendance-server/internal/shared/token"
	"github.com/spf13/cobra"
)

// AdminOptions holds flags for the admin commands.
type AdminOptions struct {
	*RootOptions
	Password string
	Role     string
}

func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(newPasswdCommand(&AdminOptions{RootOptions: rootOpts}))
	return cmd
}

func newPasswdCommand(opts *AdminOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Set an operator password, creating the account if needed",
		Long: `Set an operator password, creating the account if needed.

Without --password the new password is read from the first line of stdin.

Example:
  echo 's3cret-pass' | attendance admin passwd admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasswd(cmd.Context(), opts, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Password, "password", "", "new password")
	cmd.Flags().StringVar(&opts.Role, "role", "admin", "role for a new account")
	return cmd
}

func runPasswd(ctx context.Context, opts *AdminOptions, username string, stdin io.Reader, stdout io.Writer) error {
	password := opts.Password
	if password == "" {
		var err error
		if password, err = readLine(stdin); err != nil {
			return err
		}
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	cfg, db, err := open(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeDB(db)

	authService := auth.NewAuthService(db.DB, auth.NewCredentialRepository(), token.NewJWTManager(cfg))
	if err := authService.SetPassword(ctx, username, password, opts.Role); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "password updated for %s\n", username)
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
