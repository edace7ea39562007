package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/football-sim-service/internal/config"
	"github.com/maxviazov/football-sim-service/internal/model"
)

func TestMapPgError(t *testing.T) {
	other := errors.New("other")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ErrConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, ErrConflict},
		{"plain", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPgError(tt.in))
		})
	}
}

func TestMapPgError_PassesUnmappedCodes(t *testing.T) {
	in := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	assert.Same(t, in, MapPgError(in))
}

func TestMapSQLiteError(t *testing.T) {
	assert.NoError(t, MapSQLiteError(nil))
	assert.Equal(t, ErrNotFound, MapSQLiteError(sql.ErrNoRows))
	assert.Equal(t, ErrAlreadyExists, MapSQLiteError(errors.New("constraint failed: UNIQUE constraint failed: teams.name (2067)")))
	assert.Equal(t, ErrConflict, MapSQLiteError(errors.New("constraint failed: FOREIGN KEY constraint failed (787)")))
	assert.Equal(t, ErrConflict, MapSQLiteError(errors.New("CHECK constraint failed: home_team_id <> away_team_id")))
	other := errors.New("disk I/O error")
	assert.Equal(t, other, MapSQLiteError(other))
}

func TestPageSanitize(t *testing.T) {
	assert.Equal(t, Page{Limit: DefaultPageLimit}, Page{}.Sanitize())
	assert.Equal(t, Page{Limit: DefaultPageLimit, Offset: 0}, Page{Limit: -1, Offset: -5}.Sanitize())
	assert.Equal(t, Page{Limit: 10, Offset: 20}, Page{Limit: 10, Offset: 20}.Sanitize())
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.PostgresConfig{
		Host: "db", Port: 5433, User: "sim", Password: "p@ss/word", DBName: "football", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://sim:p%40ss%2Fword@db:5433/football?sslmode=disable", dsn)

	bare := PostgresDSN(config.PostgresConfig{Host: "localhost", Port: 5432, DBName: "x"})
	assert.Equal(t, "postgres://localhost:5432/x", bare)
}

func TestTraceLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelTrace, traceLevel(zerolog.TraceLevel))
	assert.Equal(t, tracelog.LogLevelDebug, traceLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, traceLevel(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelWarn, traceLevel(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelError, traceLevel(zerolog.ErrorLevel))
}

func TestPgxLogger_SQLFields(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	l := newPgxLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	l.Log(context.Background(), tracelog.LogLevelTrace, "Query", map[string]any{"sql": "SELECT 1", "args": []any{1}, "time": "1ms"})
	out := buf.String()
	assert.Contains(t, out, `"sql":"SELECT 1"`)
	assert.Contains(t, out, `"component":"pgx"`)
	assert.Contains(t, out, `"time":"1ms"`)

	buf.Reset()
	l.Log(context.Background(), tracelog.LogLevelNone, "ignored", nil)
	assert.Empty(t, buf.String())
}

func TestStoredEventType(t *testing.T) {
	got, err := StoredEventType("RED_CARD")
	assert.NoError(t, err)
	assert.Equal(t, model.EventRedCard, got)

	_, err = StoredEventType("OFFSIDE")
	assert.ErrorIs(t, err, ErrCorruptRow)
}
