package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eaglebank/account-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"id", "name", "email", "address", "phone_number", "date_joined"}

func newMockRepository(t *testing.T) (*PostgresAccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresAccountRepository(db), mock
}

func testAccount() *models.Account {
	return &models.Account{
		Name:        "Sam",
		Email:       "sam@example.com",
		Address:     "1 Main St",
		PhoneNumber: "555-0100",
		DateJoined:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
}

func TestMigrate(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS accounts \(\s+id\s+BIGSERIAL PRIMARY KEY`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepository(t)
	account := testAccount()
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(account.Name, account.Email, account.Address, account.PhoneNumber, account.DateJoined).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	require.NoError(t, repo.Create(context.Background(), account))
	assert.Equal(t, int64(17), account.ID)
}

func TestCreateDefaultsDateJoined(t *testing.T) {
	repo, mock := newMockRepository(t)
	account := testAccount()
	account.DateJoined = time.Time{}
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(account.Name, account.Email, account.Address, account.PhoneNumber, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	require.NoError(t, repo.Create(context.Background(), account))
	assert.False(t, account.DateJoined.IsZero())
	assert.Equal(t, account.DateJoined, account.DateJoined.Truncate(24*time.Hour))
}

func TestCreateStoreFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("INSERT INTO accounts").WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), testAccount())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create account")
}

func TestFind(t *testing.T) {
	repo, mock := newMockRepository(t)
	want := testAccount()
	want.ID = 5
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(want.ID, want.Name, want.Email, want.Address, want.PhoneNumber, want.DateJoined))

	got, err := repo.Find(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	got, err := repo.Find(context.Background(), 404)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestFindBeyondInt32(t *testing.T) {
	repo, mock := newMockRepository(t)
	const id = int64(3000000000)
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	got, err := repo.Find(context.Background(), id)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	joined := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM accounts ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(int64(1), "A", "a@example.com", "1 A St", "1", joined).
			AddRow(int64(2), "B", "b@example.com", "2 B St", "2", joined))

	accounts, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(1), accounts[0].ID)
	assert.Equal(t, "B", accounts[1].Name)
}

func TestAllEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT (.+) FROM accounts ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	accounts, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestUpdate(t *testing.T) {
	repo, mock := newMockRepository(t)
	account := testAccount()
	account.ID = 8
	mock.ExpectExec("UPDATE accounts").
		WithArgs(account.ID, account.Name, account.Email, account.Address, account.PhoneNumber, account.DateJoined).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), account))
}

func TestUpdateWithoutID(t *testing.T) {
	repo, _ := newMockRepository(t)

	err := repo.Update(context.Background(), testAccount())
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	account := testAccount()
	account.ID = 99
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), account), ErrAccountNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 3), ErrAccountNotFound)
}
