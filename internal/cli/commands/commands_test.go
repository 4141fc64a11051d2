package commands

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventario-app/inventario/internal/app"
	"github.com/inventario-app/inventario/internal/cli/auth"
	"github.com/inventario-app/inventario/internal/cli/client"
	"github.com/inventario-app/inventario/internal/config"
	"github.com/inventario-app/inventario/internal/devserver"
)

const (
	adminEmail    = "admin@inventario.local"
	adminPassword = "admin123"
)

// setupBackend points every command at an in-process backend and a shared
// in-memory token slot
func setupBackend(t *testing.T) *auth.MemoryStore {
	t.Helper()
	t.Setenv("INVENTARIO_CONFIG_DIR", t.TempDir())
	t.Setenv("INVENTARIO_API_URL", "")
	t.Setenv("INVENTARIO_EMAIL", "")
	t.Setenv("INVENTARIO_PASSWORD", "")

	srv, err := devserver.New(devserver.Options{
		DatabaseURL: filepath.Join(t.TempDir(), "dev.sqlite"),
		JWTSecret:   "test-secret",
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tokens := auth.NewMemoryStore("")
	cfg := &config.Config{API: config.APIConfig{URL: ts.URL, RequestTimeout: 5 * time.Second}}

	previous := newApp
	newApp = func(cmd *cobra.Command) (*app.App, error) {
		return app.New(cfg, zerolog.Nop(), app.Options{
			APIURL: ts.URL,
			Tokens: tokens,
			OnExpire: func() {
				fmt.Fprintln(cmd.ErrOrStderr(), sessionExpiredNotice)
			},
		})
	}
	t.Cleanup(func() { newApp = previous })

	return tokens
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := &cobra.Command{Use: "inventario", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String(APIURLFlag, "", "")
	root.AddCommand(
		NewLoginCmd(), NewLogoutCmd(), NewWhoamiCmd(), NewProductsCmd(), NewUsersCmd(),
		NewSalesCmd(), NewDashboardCmd(), NewProfileCmd(), NewPasswdCmd(), NewConfigCmd(),
	)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func loginAs(t *testing.T, email, password string) {
	t.Helper()
	_, _, err := execute(t, "", "login", "--email", email, "--password", password)
	require.NoError(t, err)
}

var createdID = regexp.MustCompile(`\(([0-9A-Z]{26})\)`)

func idFrom(t *testing.T, out string) string {
	t.Helper()
	m := createdID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestLogin_AndWhoami(t *testing.T) {
	tokens := setupBackend(t)

	_, _, err := execute(t, "", "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	out, _, err := execute(t, "", "login", "--email", adminEmail, "--password", adminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
	assert.Contains(t, out, "Role: Admin")

	persisted, _ := tokens.Load()
	assert.NotEmpty(t, persisted)

	out, _, err = execute(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Administrador ("+adminEmail+")")
	assert.Contains(t, out, "Role:   admin")
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	setupBackend(t)

	_, _, err := execute(t, adminPassword+"\n", "login", "--email", adminEmail)
	require.NoError(t, err)
}

func TestLogin_FromEnv(t *testing.T) {
	setupBackend(t)
	t.Setenv("INVENTARIO_EMAIL", adminEmail)
	t.Setenv("INVENTARIO_PASSWORD", adminPassword)

	_, _, err := execute(t, "", "login")
	require.NoError(t, err)
}

func TestLogin_OverStaleToken(t *testing.T) {
	tokens := setupBackend(t)
	require.NoError(t, tokens.Save("stale-token"))

	out, stderr, err := execute(t, "", "login", "--email", adminEmail, "--password", adminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
	assert.NotContains(t, stderr, sessionExpiredNotice)

	persisted, _ := tokens.Load()
	assert.NotEqual(t, "stale-token", persisted)
}

func TestLogin_Rejected(t *testing.T) {
	tokens := setupBackend(t)

	_, _, err := execute(t, "", "login", "--email", adminEmail, "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Credenciais inválidas")

	persisted, _ := tokens.Load()
	assert.Empty(t, persisted)
}

func TestLogin_RequiresEmail(t *testing.T) {
	setupBackend(t)

	_, _, err := execute(t, "", "login", "--password", "x")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	tokens := setupBackend(t)
	loginAs(t, adminEmail, adminPassword)

	out, _, err := execute(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	persisted, _ := tokens.Load()
	assert.Empty(t, persisted)

	_, _, err = execute(t, "", "logout")
	require.NoError(t, err, "logout is idempotent")

	_, _, err = execute(t, "", "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestExpiredSession(t *testing.T) {
	tokens := setupBackend(t)
	require.NoError(t, tokens.Save("stale-token"))

	_, stderr, err := execute(t, "", "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.NotContains(t, stderr, sessionExpiredNotice, "one failure, one message")

	persisted, _ := tokens.Load()
	assert.Empty(t, persisted)
}

func TestProductsSalesAndDashboard(t *testing.T) {
	setupBackend(t)
	loginAs(t, adminEmail, adminPassword)

	out, _, err := execute(t, "", "products", "add", "--name", "Caneta Azul", "--category", "Papelaria", "--price", "2.5", "--stock", "10")
	require.NoError(t, err)
	pen := idFrom(t, out)

	out, _, err = execute(t, "", "products", "add", "--name", "Café", "--category", "Mercearia", "--price", "18", "--stock", "2")
	require.NoError(t, err)
	coffee := idFrom(t, out)

	out, _, err = execute(t, "", "products", "ls", "--search", "cafe")
	require.NoError(t, err)
	assert.Contains(t, out, coffee)
	assert.NotContains(t, out, pen)

	out, _, err = execute(t, "", "products", "ls", "--low-stock")
	require.NoError(t, err)
	assert.Contains(t, out, "Café")
	assert.NotContains(t, out, "Caneta")

	_, _, err = execute(t, "", "products", "ls", "--sort", "color")
	assert.Error(t, err)

	out, _, err = execute(t, "", "sales", "add", "--item", pen+":3", "--item", coffee)
	require.NoError(t, err)
	assert.Contains(t, out, "total 25.50")

	_, _, err = execute(t, "", "sales", "add", "--item", coffee+":5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Estoque insuficiente")

	out, _, err = execute(t, "", "sales", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "25.50")

	out, _, err = execute(t, "", "dashboard", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Revenue:        25.50")
	assert.Contains(t, out, "Sales:          1")
	assert.Contains(t, out, "Caneta Azul")

	out, _, err = execute(t, "", "products", "rm", coffee)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed product")
}

func TestUsers_AdminOnly(t *testing.T) {
	setupBackend(t)
	loginAs(t, adminEmail, adminPassword)

	_, _, err := execute(t, "", "users", "add", "--name", "Vera", "--email", "vera@test.local", "--password", "vera1234", "--role", "dono")
	assert.Error(t, err)

	out, _, err := execute(t, "", "users", "add", "--name", "Vera", "--email", "vera@test.local", "--password", "vera1234")
	require.NoError(t, err)
	assert.Contains(t, out, "vera@test.local")

	out, _, err = execute(t, "", "users", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "vendedor")

	loginAs(t, "vera@test.local", "vera1234")

	_, _, err = execute(t, "", "users", "ls")
	assert.ErrorIs(t, err, ErrAdminOnly)

	_, _, err = execute(t, "", "products", "add", "--name", "Lápis", "--price", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Acesso negado")
}

func TestProfileAndPasswd(t *testing.T) {
	setupBackend(t)
	loginAs(t, adminEmail, adminPassword)

	out, _, err := execute(t, "", "profile", "update", "--name", "Chefe")
	require.NoError(t, err)
	assert.Contains(t, out, "Chefe ("+adminEmail+")")

	_, _, err = execute(t, "wrong\nnovasenha\n", "passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Senha atual incorreta")

	_, _, err = execute(t, adminPassword+"\nnovasenha\n", "passwd")
	require.NoError(t, err)

	_, _, err = execute(t, "", "whoami")
	require.NoError(t, err, "password change keeps the session")

	loginAs(t, adminEmail, "novasenha")
}

func TestConfigCommands(t *testing.T) {
	t.Setenv("INVENTARIO_CONFIG_DIR", t.TempDir())
	t.Setenv("INVENTARIO_API_URL", "")

	_, _, err := execute(t, "", "config", "set-url", "ftp://nope")
	assert.Error(t, err)

	_, _, err = execute(t, "", "config", "set-url", "https://api.example.com")
	require.NoError(t, err)

	out, _, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "api_url:     https://api.example.com")

	out, _, err = execute(t, "", "--api-url", "http://flag:3000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "api_url:     http://flag:3000")
}

func TestParseSaleLines(t *testing.T) {
	tests := []struct {
		name    string
		items   []string
		want    []client.SaleLine
		wantErr bool
	}{
		{name: "none", items: nil, wantErr: true},
		{name: "with quantity", items: []string{"p1:3"}, want: []client.SaleLine{{ProductID: "p1", Quantity: 3}}},
		{name: "default quantity", items: []string{"p1"}, want: []client.SaleLine{{ProductID: "p1", Quantity: 1}}},
		{name: "several", items: []string{"p1:2", " p2 : 5 "}, want: []client.SaleLine{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 5}}},
		{name: "missing id", items: []string{":2"}, wantErr: true},
		{name: "zero quantity", items: []string{"p1:0"}, wantErr: true},
		{name: "bad quantity", items: []string{"p1:two"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSaleLines(tt.items)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
