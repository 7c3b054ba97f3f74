package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

func TestTokenRepositoryCreateAndRevoke(t *testing.T) {
	mock := newMock(t)
	repo := NewTokenRepository(mock)
	exp := time.Now().Add(time.Hour)

	mock.ExpectExec("INSERT INTO refresh_tokens \\(jti,user_id,expires_at\\)").
		WithArgs("jti-1", int64(5), exp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked = \\$1 WHERE jti = \\$2").
		WithArgs(true, "jti-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked").
		WithArgs(true, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.CreateToken(context.Background(), &models.RefreshToken{JTI: "jti-1", UserID: 5, ExpiresAt: exp}))
	require.NoError(t, repo.RevokeToken(context.Background(), "jti-1"))
	assert.ErrorIs(t, repo.RevokeToken(context.Background(), "missing"), apperrors.ErrTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryGetToken(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("SELECT jti, user_id, expires_at, revoked, created_at FROM refresh_tokens WHERE jti = \\$1").
		WithArgs("jti-2").
		WillReturnRows(pgxmock.NewRows([]string{"jti", "user_id", "expires_at", "revoked", "created_at"}).
			AddRow("jti-2", int64(3), now, true, now))

	tok, err := NewTokenRepository(mock).GetToken(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.True(t, tok.Revoked)
	assert.Equal(t, int64(3), tok.UserID)
}

func TestTokenRepositoryCleanup(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM refresh_tokens WHERE \\(expires_at < \\$1 OR \\(revoked = \\$2 AND created_at < \\$3\\)\\)").
		WithArgs(now, true, now.Add(-24*time.Hour)).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := NewTokenRepository(mock).CleanupExpiredTokens(context.Background(), now, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
