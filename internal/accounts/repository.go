package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, account Account) error
	Get(ctx context.Context, id string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	SetBalance(ctx context.Context, id string, balance float64) (Account, error)
	// Adjust adds delta to the balance atomically. A reference that was already
	// applied leaves the balance unchanged.
	Adjust(ctx context.Context, id string, delta float64, reference string) (Account, error)
}

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, user_id, alias, cvu, balance, created_at`

// Create inserts an account record.
func (r *PostgresRepository) Create(ctx context.Context, account Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(account.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6)`, accountID, userID, account.Alias, account.CVU, account.Balance, account.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrExists
	}
	return err
}

// Get fetches an account by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	return scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID))
}

// List returns every account ordered by creation.
func (r *PostgresRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

// SetBalance overwrites the balance.
func (r *PostgresRepository) SetBalance(ctx context.Context, id string, balance float64) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	return scanAccount(r.db.QueryRow(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2
        RETURNING `+accountColumns, balance, accountID))
}

// Adjust applies a delta inside one transaction, recording the reference.
func (r *PostgresRepository) Adjust(ctx context.Context, id string, delta float64, reference string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	account, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, accountID))
	if err != nil {
		return Account{}, err
	}

	cmd, err := tx.Exec(ctx, `INSERT INTO balance_adjustments (reference, account_id, delta, created_at)
        VALUES ($1, $2, $3, $4) ON CONFLICT (reference) DO NOTHING`, reference, accountID, delta, time.Now().UTC())
	if err != nil {
		return Account{}, err
	}
	if cmd.RowsAffected() == 0 {
		return account, tx.Commit(ctx)
	}

	account, err = scanAccount(tx.QueryRow(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2
        RETURNING `+accountColumns, delta, accountID))
	if err != nil {
		return Account{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Account{}, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		account   Account
		id        uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &userID, &account.Alias, &account.CVU, &account.Balance, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	account.ID = id.String()
	account.UserID = userID.String()
	account.CreatedAt = createdAt.UTC()
	return account, nil
}
