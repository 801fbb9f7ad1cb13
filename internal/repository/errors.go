package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"taskboard/internal/apperr"
)

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board to delete does not exist
	ErrBoardNotFound = errors.New("board not found")

	// ErrNoteNotFound is returned when a note to delete does not exist
	ErrNoteNotFound = errors.New("note not found")
)

// uniqueViolation is the postgres SQLSTATE for a unique index violation.
const uniqueViolation = "23505"

// conflictOnDuplicate turns a unique index violation into a Conflict whose
// message is built from format and args. Other errors pass through.
func conflictOnDuplicate(err error, format string, args ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &apperr.Error{Kind: apperr.KindConflict, Message: fmt.Sprintf(format, args...), Err: err}
	}
	return err
}
