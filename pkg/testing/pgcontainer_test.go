package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationScript(t *testing.T) {
	script, err := MigrationScript()

	require.NoError(t, err)
	assert.Contains(t, script, "-- 0001_gradebook.up.sql")
	assert.Contains(t, script, "CREATE TABLE")
	assert.NotContains(t, script, "DROP TABLE")
}
