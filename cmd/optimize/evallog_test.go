package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimize_log.csv")
	l, err := createEvalLog(path)
	require.NoError(t, err)

	pv := NewParamVector()
	require.NoError(t, l.Append(newEvalRecord(1, -2.5, 2.4, 0.5, pv.DefaultVector())))
	require.NoError(t, l.Append(newEvalRecord(2, -3, 2.9, 0.4, pv.DefaultVector())))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	header := strings.Split(lines[0], ",")
	assert.Equal(t, []string{"eval", "fitness", "deliveries_per_sec", "quality"}, header[:4])
	for i, spec := range pv.Specs {
		assert.Equal(t, spec.Name, header[4+i], "parameter column order")
	}
	assert.True(t, strings.HasPrefix(lines[2], "2,"))
}
