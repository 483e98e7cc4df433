package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"procurement-backend/models"
	"procurement-backend/services"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestFindSentRfpByMessageID(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "rfp_id", "vendor_email", "provider_message_id"}).
		AddRow(3, 1, "a@vendor.example", "abc")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sent_rfps" WHERE provider_message_id = $1`)).
		WillReturnRows(rows)

	sent, err := store.FindSentRfpByMessageID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, uint(3), sent.ID)
	assert.Equal(t, uint(1), sent.RfpID)
	assert.Equal(t, "a@vendor.example", sent.VendorEmail)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSentRfpByMessageIDNoMatch(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sent_rfps" WHERE provider_message_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindSentRfpByMessageID(context.Background(), "nope")
	assert.ErrorIs(t, err, services.ErrNoMatchingSentRfp)
	assert.Contains(t, err.Error(), "nope")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRfpNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rfps" WHERE "rfps"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindRfp(context.Background(), 7)
	assert.ErrorIs(t, err, services.ErrRfpNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReply(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "replies"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	reply := models.Reply{SentRfpID: 3, EmailID: "abc", EmailBody: "body", Parsed: "summary"}
	require.NoError(t, store.CreateReply(context.Background(), &reply))
	assert.Equal(t, uint(12), reply.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListVendors(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email"}).
		AddRow(1, "Tech Solutions Inc.", "sales@tech.example").
		AddRow(2, "Global Supply Co.", "quotes@global.example")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "vendors" ORDER BY id`)).WillReturnRows(rows)

	vendors, err := store.ListVendors(context.Background())
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Global Supply Co.", vendors[1].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}
