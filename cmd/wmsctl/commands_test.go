package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"rack-wms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWorkflowCommands(t *testing.T) {
	for _, key := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "AI_CLASSIFIER_URL"} {
		t.Setenv(key, "")
	}
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, "seed", "--sqlite", db)
	require.NoError(t, err, out)
	assert.Contains(t, out, "master data seeded")

	out, err = run(t, "racks", "list", "--sqlite", db, "-o", "json")
	require.NoError(t, err, out)
	var racks []models.Rack
	require.NoError(t, json.Unmarshal([]byte(out), &racks))
	assert.Len(t, racks, 4)

	out, err = run(t, "receive", "--sqlite", db, "--sku", "SKU001", "--qty", "6", "--plate", "LP-1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "RECEIVED")

	out, err = run(t, "putaway", "LP-1", "--suggest", "--sqlite", db, "--actor", "cli-test")
	require.NoError(t, err, out)
	assert.Contains(t, out, "A-1-1")
	assert.Contains(t, out, "STORED")

	out, err = run(t, "dispatch", "LP-1", "6", "--sqlite", db)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dispatch successful. Inventory quantity is 0 and status is now SHIPPED.")

	_, err = run(t, "dispatch", "LP-1", "1", "--sqlite", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_TRANSITION")

	out, err = run(t, "history", "--sqlite", db, "-o", "json")
	require.NoError(t, err, out)
	var history []models.DispatchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 1)
	assert.Equal(t, 6, history[0].Qty)
}

func TestReceiveRequiresFlags(t *testing.T) {
	_, err := run(t, "receive", "--sqlite", filepath.Join(t.TempDir(), "cli.db"), "--sku", "SKU001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Plate")
}

func TestReceiveUnknownLocation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	out, err := run(t, "seed", "--sqlite", db)
	require.NoError(t, err, out)

	_, err = run(t, "receive", "--sqlite", db, "--sku", "SKU001", "--qty", "1", "--plate", "LP-9", "--location", "Z-9-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND: location Z-9-9 not found")

	_, err = run(t, "receive", "--sqlite", db, "--sku", "NOPE", "--qty", "1", "--plate", "LP-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product NOPE not found")
}

func TestRackCreateRejectsBadCapacity(t *testing.T) {
	_, err := run(t, "racks", "create", "X-1-1", "NORMAL", "ten", "--sqlite", filepath.Join(t.TempDir(), "cli.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")
}
