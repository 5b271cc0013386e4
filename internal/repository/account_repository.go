package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/account-service/internal/models"
)

var (
	// ErrAccountNotFound is the absence signal for lookups and mutations by id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMissingID is returned when an update is attempted on an account that
	// was never persisted.
	ErrMissingID = errors.New("account has no id")
)

// AccountRepository is the persistence contract used by the command and
// query services.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, id int64) (*models.Account, error)
	All(ctx context.Context) ([]models.Account, error)
}

const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id           BIGSERIAL PRIMARY KEY,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL,
		address      TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		date_joined  DATE NOT NULL DEFAULT CURRENT_DATE
	)
`

// PostgresAccountRepository stores accounts in the PostgreSQL accounts table.
type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Migrate creates the accounts table if it does not exist yet.
func (r *PostgresAccountRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

// Create inserts the account and assigns its ID. A zero DateJoined is set to
// today's date.
func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.DateJoined.IsZero() {
		account.DateJoined = models.Today()
	}
	query := `
		INSERT INTO accounts (name, email, address, phone_number, date_joined)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Name, account.Email, account.Address, account.PhoneNumber, account.DateJoined,
	).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) Find(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, name, email, address, phone_number, date_joined
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Name, &account.Email,
		&account.Address, &account.PhoneNumber, &account.DateJoined,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.DateJoined = account.DateJoined.UTC()
	return &account, nil
}

// All returns every account ordered by id.
func (r *PostgresAccountRepository) All(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT id, name, email, address, phone_number, date_joined
		FROM accounts
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.Name, &account.Email,
			&account.Address, &account.PhoneNumber, &account.DateJoined,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.DateJoined = account.DateJoined.UTC()
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		return ErrMissingID
	}
	query := `
		UPDATE accounts
		SET name = $2, email = $3, address = $4, phone_number = $5, date_joined = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		account.ID, account.Name, account.Email, account.Address, account.PhoneNumber, account.DateJoined,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}
