package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.String())

	w.add(`ar.status = ?`, "pending")
	w.add(`(name ILIKE ? OR name_he ILIKE ?)`, "%a%", "%b%")
	w.add(`u.is_approved`)

	assert.Equal(t, " WHERE ar.status = $1 AND (name ILIKE $2 OR name_he ILIKE $3) AND u.is_approved", w.String())
	assert.Equal(t, []any{"pending", "%a%", "%b%"}, w.args)
}

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError(nil, "unit"))

	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "units_code_key"})
	assert.ErrorIs(t, mapWriteError(dup, "unit"), apperrors.ErrDuplicate)
	assert.True(t, isUniqueViolation(dup, "units_code_key"))
	assert.False(t, isUniqueViolation(dup, reportUserDateConstraint))

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, mapWriteError(fk, "profile"), apperrors.ErrValidation)

	other := errors.New("connection reset")
	err := mapWriteError(other, "report")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
}
