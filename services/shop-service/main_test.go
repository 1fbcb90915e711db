package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ashendes/bec-market/internal/auth"
	"github.com/ashendes/bec-market/internal/config"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shop-service version "+Version)
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog", "--category", string(models.CategoryStationery))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "สมุดจดบันทึก")
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := execute(t, "hash-password", "admin123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("admin123")))

	_, err = execute(t, "hash-password", "123")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestBuildServerSeedsAdmin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Auth.JWTSecret = "secret"
	cfg.Auth.AdminEmail = "admin@bec.ac.th"
	cfg.Auth.AdminPasswordHash = hash

	mem := store.NewMemory()
	srv, err := buildServer(ctx, cfg, mem)
	require.NoError(t, err)
	require.NotNil(t, srv.Router())

	account, err := mem.FindAccount(ctx, "admin@bec.ac.th")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin())
}

func TestOpenMemoryStore(t *testing.T) {
	cfg := config.DefaultConfig()

	st, closeStore, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &store.Memory{}, st)
}
