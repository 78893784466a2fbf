package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
)

func TestEmailLogRepository_Insert(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewEmailLogRepository(conn)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	msgID := "<abc@example.com>"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO email_logs (id, user_id, kind, from_address, to_address, subject, provider_host, status, message_id, error, created_at)")).
		WithArgs("log-1", nil, "user", "a@gmail.com", "b@example.com", "Hi", "smtp.gmail.com", "sent", msgID, nil, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), &models.EmailLog{
		ID: "log-1", Kind: "user", FromAddress: "a@gmail.com", ToAddress: "b@example.com", Subject: "Hi",
		ProviderHost: "smtp.gmail.com", Status: "sent", MessageID: &msgID, CreatedAt: at,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
