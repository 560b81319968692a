package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", db, "--user", "tester", "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLedgerWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, db, "tx", "add", "5", "--kind", "EXPENSE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create an account first")

	out, err := run(t, db, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing here yet")

	out, err = run(t, db, "accounts", "create", "Wallet", "--type", "CASH", "--opening", "100")
	require.NoError(t, err)
	var accountID string
	_, err = fmt.Sscanf(out, "Created account %s", &accountID)
	require.NoError(t, err)

	out, err = run(t, db, "accounts", "set-balance", accountID, "142.37")
	require.NoError(t, err)
	assert.Contains(t, out, "Adjusted by 42.37")

	out, err = run(t, db, "accounts", "set-balance", accountID, "142.37")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")

	out, err = run(t, db, "tx", "add", "5", "--kind", "EXPENSE", "--payee", "Coffee")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded -5.00 on "+accountID)

	out, err = run(t, db, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "137.37 EUR")

	out, err = run(t, db, "tx", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "Balance Adjustment")

	out, err = run(t, db, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "137.37 EUR")
}

func TestSummaryPreviousMonth(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	_, err := run(t, db, "accounts", "create", "Wallet", "--type", "CASH", "--opening", "20")
	require.NoError(t, err)

	out, err := run(t, db, "summary", "--month", "2024-01", "--prev")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-12")
	assert.Contains(t, out, "20.00 EUR")

	_, err = run(t, db, "summary", "--month", "January", "--prev")
	require.Error(t, err)
}

func TestPreviousMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	got, err := previousMonth("", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02", got)

	got, err = previousMonth("2025-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-12", got)
}

func TestArchivedAccountDropsFromList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := run(t, db, "accounts", "create", "Old card", "--type", "CARD")
	require.NoError(t, err)
	var accountID string
	_, err = fmt.Sscanf(out, "Created account %s", &accountID)
	require.NoError(t, err)

	_, err = run(t, db, "accounts", "archive", accountID)
	require.NoError(t, err)

	out, err = run(t, db, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts yet")

	out, err = run(t, db, "accounts", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Old card")
}

func TestInvalidAmount(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, db, "tx", "add", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}
