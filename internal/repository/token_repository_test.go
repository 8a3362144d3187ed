package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRefreshRejectsExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(4, time.Now().Add(-time.Hour), nil))

	_, err = NewTokenRepo(db).ValidateRefresh(context.Background(), "abc")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPurgeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM refresh_tokens`).
		WithArgs(cutoff, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewTokenRepo(db).PurgeExpired(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
