package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/fees"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "notaryctl", SilenceUsage: true, SilenceErrors: true}
	InitFeeCommands(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScheduleCmd(t *testing.T) {
	out, err := execute(t, "", "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "signature")
	assert.Contains(t, out, "193.00")
	assert.Contains(t, out, "VAT")

	out, err = execute(t, "", "schedule", "--json")
	require.NoError(t, err)
	var services []fees.Service
	require.NoError(t, json.Unmarshal([]byte(out), &services))
	assert.Len(t, services, len(fees.Schedule()))
}

func TestQuoteCmd(t *testing.T) {
	dir := t.TempDir()

	t.Run("array file", func(t *testing.T) {
		path := filepath.Join(dir, "lines.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"type":"signature","sub_type":"first"}]`), 0o600))

		out, err := execute(t, "", "quote", "-f", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Subtotal")
		assert.Contains(t, out, "193.00")
		assert.Contains(t, out, "34.74")
		assert.Contains(t, out, "227.74")
	})

	t.Run("services object from stdin as json", func(t *testing.T) {
		out, err := execute(t, `{"services":[{"type":"other","description":"Apostille help"}]}`, "quote", "-f", "-", "--json")
		require.NoError(t, err)
		var q fees.Quote
		require.NoError(t, json.Unmarshal([]byte(out), &q))
		assert.Equal(t, fees.Shekels(315), q.Subtotal)
		assert.Equal(t, "Apostille help", q.Lines[0].Description)
	})

	t.Run("err, empty input", func(t *testing.T) {
		_, err := execute(t, "  ", "quote", "-f", "-")
		assert.ErrorIs(t, err, fees.ErrNoServices)
	})

	t.Run("err, unknown service", func(t *testing.T) {
		_, err := execute(t, `[{"type":"teleport"}]`, "quote", "-f", "-")
		assert.ErrorIs(t, err, fees.ErrUnknownService)
	})

	t.Run("err, quantity above limit", func(t *testing.T) {
		_, err := execute(t, `[{"type":"signature","quantity":1125899906842624}]`, "quote", "-f", "-")
		assert.ErrorIs(t, err, fees.ErrInvalidLine)
	})

	t.Run("err, wrong shape", func(t *testing.T) {
		_, err := execute(t, `{"lines":[]}`, "quote", "-f", "-")
		assert.Error(t, err)
	})

	t.Run("err, missing flag", func(t *testing.T) {
		_, err := execute(t, "", "quote")
		assert.Error(t, err)
	})
}
