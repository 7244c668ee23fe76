package repository

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func logrusDiscard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func TestMapUniqueViolation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{
			name:   "active emergency",
			err:    &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintOneActiveEmergency},
			target: apperror.ErrAlreadyActive,
		},
		{
			name:   "pending dedupe key",
			err:    fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintPendingDedupe}),
			target: apperror.ErrDuplicate,
		},
		{
			name:   "attempt channel",
			err:    &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintAttemptChannel},
			target: apperror.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapUniqueViolation(tt.err, "entity", "key"), tt.target)
		})
	}
}

func TestMapUniqueViolation_PassesOtherErrors(t *testing.T) {
	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.Same(t, fk, mapUniqueViolation(fk, "entity", "key"))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapUniqueViolation(plain, "entity", "key"))
}

func TestNotFoundOr(t *testing.T) {
	assert.ErrorIs(t, notFoundOr(pgx.ErrNoRows, "obligation", "id", "get obligation"), apperror.ErrNotFound)

	err := notFoundOr(errors.New("timeout"), "obligation", "id", "get obligation")
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get obligation")
}
