package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func TestResolveParams(t *testing.T) {
	p, err := resolveParams("hard", "", 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, mines.Hard, p)

	p, err = resolveParams("easy", "12:9:20", 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, mines.Params{Columns: 12, Rows: 9, Mines: 20}, p)

	p, err = resolveParams("easy", "", 8, 8, 10)
	require.NoError(t, err)
	assert.Equal(t, mines.Params{Columns: 8, Rows: 8, Mines: 10}, p)

	_, err = resolveParams("expert", "", 0, 0, 0)
	assert.Error(t, err)
	_, err = resolveParams("easy", "12x9", 0, 0, 0)
	assert.Error(t, err)
}
