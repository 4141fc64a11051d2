package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inventario-app/inventario/internal/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the inventory backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set INVENTARIO_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set INVENTARIO_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("INVENTARIO_EMAIL")
	}
	if password == "" {
		password = os.Getenv("INVENTARIO_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or INVENTARIO_EMAIL env var)")
	}

	if password == "" {
		p, err := newSecretReader(cmd).read("Password: ")
		if err != nil {
			return err
		}
		password = p
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	a.Start(ctxOf(cmd))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Logging in to %s...\n", a.APIURL)

	user, err := a.Auth.Login(ctxOf(cmd), session.Credentials{Email: email, Secret: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s (%s)\n", user.Name, user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(out, "  Role: Admin")
	}

	return nil
}

// secretReader prompts without echo on a terminal; piped input is read one
// line per secret
type secretReader struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newSecretReader(cmd *cobra.Command) *secretReader {
	return &secretReader{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

func (r *secretReader) read(prompt string) (string, error) {
	out := r.cmd.OutOrStdout()
	if f, ok := r.cmd.InOrStdin().(*os.File); ok && f == os.Stdin && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out) // New line after password input
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := r.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or INVENTARIO_PASSWORD env var)")
	}
	return line, nil
}
