package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func TestTransactionManager_WithRetry(t *testing.T) {
	conn, mock := newMockConnection(t)
	tm := NewTransactionManager(conn)

	// First attempt deadlocks, second succeeds
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	err := tm.WithRetry(context.Background(), func(tx *sqlx.Tx) error {
		attempts++
		if attempts == 1 {
			return errors.New("Error 1213: Deadlock found when trying to get lock")
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_WithRetryStopsOnOtherErrors(t *testing.T) {
	conn, mock := newMockConnection(t)
	tm := NewTransactionManager(conn)

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := tm.WithRetry(context.Background(), func(tx *sqlx.Tx) error {
		attempts++
		return errors.New("duplicate key")
	}, 3)

	assert.EqualError(t, err, "duplicate key")
	assert.Equal(t, 1, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("pq: deadlock detected")))
	assert.True(t, isRetryable(errors.New("pq: could not serialize access due to concurrent update")))
	assert.True(t, isRetryable(errors.New("Error 1205: Lock wait timeout exceeded")))
	assert.False(t, isRetryable(errors.New("syntax error")))
	assert.False(t, isRetryable(nil))
}
