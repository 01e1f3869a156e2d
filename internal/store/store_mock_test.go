package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/hburn/internal/model"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestListCompanies_QueryError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("SELECT id, name").WillReturnError(errors.New("disk I/O error"))

	_, err := s.ListCompanies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing companies")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContract_CorruptStoredDate(t *testing.T) {
	s, mock := newMock(t)
	rows := sqlmock.NewRows([]string{
		"id", "company_id", "name", "title", "contract_type", "total_hours", "start_date", "end_date", "is_active",
	}).AddRow(7, 1, "Acme", "", "Support", 40.0, "yesterday", "2024-12-31T00:00:00Z", 1)
	mock.ExpectQuery("SELECT (.+) FROM contracts c").WithArgs(int64(7)).WillReturnRows(rows)

	_, err := s.GetContract(context.Background(), 7)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "parsing stored time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateContract_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("UPDATE contracts SET is_active = 0").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeactivateContract(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportFile_RollsBackOnFailure(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM time_entries WHERE source_file").
		WithArgs("/in/a.csv").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO time_entries").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err := s.ImportFile(context.Background(), "/in/a.csv", FileInfo{}, []model.TimeEntry{{ContractID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntry_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("DELETE FROM time_entries WHERE id").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteEntry(context.Background(), 4), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
