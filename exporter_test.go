package goesc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplementsExporter(t *testing.T) {
	implements := func(Exporter) {}
	implements(new(CSVExporter))
}

func TestCSVExportFail(t *testing.T) {
	_, err := NewCSVExporter([]string{"gradient"}, "/noNoNoNo/", "temp.csv")
	assert.Error(t, err, "no issue when trying to create a file in a missing directory")
}

func TestCSVExport(t *testing.T) {
	p, err := newDefaultPersonaliser()
	require.NoError(t, err)
	records := RunSession(p, QuadraticMap{Optimum: 1.2, Curvature: 1}, nil, 12)

	dir := t.TempDir()
	ce, err := NewCSVExporter([]string{"gradient", "curvature"}, dir, "session.csv")
	require.NoError(t, err)
	require.NoError(t, ce.WriteAll(records))
	err = ce.Write(Record{Estimates: []float64{1}})
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	require.NoError(t, ce.Close())

	data, err := os.ReadFile(filepath.Join(dir, "session.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 12+3, "creation comment, header, records and closing comment")
	assert.True(t, strings.HasPrefix(lines[0], "# Creation date"))
	assert.Equal(t, "iteration,applied,performance,parameter,step,gradient,curvature", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "0,0.2,"))
	assert.Contains(t, lines[2], ",hold,")
	assert.Regexp(t, ",(newton|fallback),", lines[2+5])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "# Closing date"))
}

func TestCSVExportCloseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	ce := CSVExporter{",", 0, f}
	assert.Error(t, ce.Close(), "closing line written to a read only file")
	assert.True(t, errors.Is(f.Close(), os.ErrClosed), "file left open")
}
