package migration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Payments Table")
	require.NoError(t, err)

	assert.Contains(t, mf.UpPath, "add_payments_table.up.sql")
	assert.Contains(t, mf.DownPath, "add_payments_table.down.sql")
	assert.Len(t, mf.Version, 14)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "Add Payments Table")

	_, err = os.Stat(mf.DownPath)
	assert.NoError(t, err)
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Add Payments Table":  "add_payments_table",
		"add-invoice-index":   "add_invoice_index",
		"Trailing Space ":     "trailing_space",
		"double  space":       "double_space",
		"Mixed-Case_Name 123": "mixed_case_name_123",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, sanitizeName(input), "input %q", input)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations[0], "first")

	empty, err := ListMigrations(dir + "/missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
