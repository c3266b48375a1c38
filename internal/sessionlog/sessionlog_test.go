package sessionlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rigaro/goesc"
)

func runSession(t *testing.T, cfg *goesc.Config) []goesc.Record {
	t.Helper()
	p, err := cfg.NewPersonaliser()
	require.NoError(t, err)
	return goesc.RunSession(p, cfg.PerformanceMap(), nil, cfg.Iterations)
}

func TestSessionRoundTrip(t *testing.T) {
	log, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer log.Close()

	cfg := goesc.DefaultConfig()
	cfg.Iterations = 30
	records := runSession(t, cfg)

	id, err := log.StartSession(cfg, "synthetic subject")
	require.NoError(t, err)
	require.NoError(t, log.Append(id, records[:10]))
	require.NoError(t, log.Append(id, records[10:]))
	require.NoError(t, log.EndSession(id))

	got, err := log.Records(id)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	s, err := log.Session(id)
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, "gradient-hessian", s.Estimator)
	assert.Equal(t, "synthetic subject", s.Notes)
	assert.Equal(t, 30, s.RecordCount)
	assert.Equal(t, cfg, s.Config)
	assert.False(t, s.End.IsZero())
	assert.False(t, s.End.Before(s.Start))
}

func TestSessions(t *testing.T) {
	log, err := Open(":memory:")
	require.NoError(t, err)
	defer log.Close()

	cfg := goesc.DefaultConfig()
	first, err := log.StartSession(cfg, "")
	require.NoError(t, err)
	second, err := log.StartSession(cfg, "")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	ids, err := log.Sessions()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first, second}, ids)

	s, err := log.Session(first)
	require.NoError(t, err)
	assert.True(t, s.End.IsZero())
	assert.Zero(t, s.RecordCount)

	records, err := log.Records(first)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSessionErrors(t *testing.T) {
	log, err := Open(":memory:")
	require.NoError(t, err)
	defer log.Close()

	assert.Error(t, log.EndSession("missing"))
	_, err = log.Session("missing")
	assert.Error(t, err)

	cfg := goesc.DefaultConfig()
	cfg.Iterations = 3
	records := runSession(t, cfg)
	assert.Error(t, log.Append("missing", records), "records need an existing session")

	id, err := log.StartSession(cfg, "")
	require.NoError(t, err)
	require.NoError(t, log.Append(id, records))
	assert.Error(t, log.Append(id, records), "iterations are unique within a session")
	got, err := log.Records(id)
	require.NoError(t, err)
	assert.Len(t, got, 3, "a failed append leaves no partial records")
}
