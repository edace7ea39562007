package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maxviazov/football-sim-service/internal/model"
)

// Domain-level errors repository implementations bubble up.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrCorruptRow is returned when a stored value falls outside the domain taxonomy.
	ErrCorruptRow = errors.New("corrupt row")
)

// MapPgError translates common Postgres error codes to domain errors.
// Only what higher layers handle explicitly is mapped; everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation:
			return ErrConflict
		}
	}
	return err
}

// MapSQLiteError does the same for SQLite. The driver reports constraint
// failures through the message text, so matching on it is the portable option.
func MapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"), strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return ErrAlreadyExists
	case strings.Contains(msg, "FOREIGN KEY constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return ErrConflict
	}
	return err
}

// StoredEventType converts an event_type column back into the taxonomy.
func StoredEventType(raw string) (model.EventType, error) {
	t, ok := model.ParseEventType(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown event type %q", ErrCorruptRow, raw)
	}
	return t, nil
}
