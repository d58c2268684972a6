package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCommands(t *testing.T) {
	setupTestConfig(t)

	out, err := run(t, moodsCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Dark")
	assert.Contains(t, out, "Happy")

	out, err = run(t, genresCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "All")
	assert.Contains(t, out, "Thriller")
}
