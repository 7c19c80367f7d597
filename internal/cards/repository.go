package cards

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists cards.
type Repository interface {
	Create(ctx context.Context, card Card) error
	List(ctx context.Context, accountID string) ([]Card, error)
	Get(ctx context.Context, accountID, id string) (Card, error)
	Delete(ctx context.Context, accountID, id string) error
}

// PostgresRepository stores cards in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const cardColumns = `id, account_id, number, first_last_name, expiration_date, created_at`

// Create inserts a card.
func (r *PostgresRepository) Create(ctx context.Context, card Card) error {
	ids, err := parseIDs(card.AccountID, card.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO cards (`+cardColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		ids[1], ids[0], card.Number, card.FirstLastName, card.ExpirationDate, card.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrExists
	}
	return err
}

// List returns the cards of an account.
func (r *PostgresRepository) List(ctx context.Context, accountID string) ([]Card, error) {
	ids, err := parseIDs(accountID)
	if err != nil {
		return []Card{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+cardColumns+` FROM cards WHERE account_id = $1 ORDER BY created_at, id`, ids[0])
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// Get fetches one card of an account.
func (r *PostgresRepository) Get(ctx context.Context, accountID, id string) (Card, error) {
	ids, err := parseIDs(accountID, id)
	if err != nil {
		return Card{}, ErrNotFound
	}
	return scanCard(r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE account_id = $1 AND id = $2`, ids[0], ids[1]))
}

// Delete removes a card.
func (r *PostgresRepository) Delete(ctx context.Context, accountID, id string) error {
	ids, err := parseIDs(accountID, id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM cards WHERE account_id = $1 AND id = $2`, ids[0], ids[1])
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func scanCard(row pgx.Row) (Card, error) {
	var (
		card      Card
		id        uuid.UUID
		accountID uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &accountID, &card.Number, &card.FirstLastName, &card.ExpirationDate, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Card{}, ErrNotFound
		}
		return Card{}, err
	}
	card.ID = id.String()
	card.AccountID = accountID.String()
	card.CreatedAt = createdAt.UTC()
	return card, nil
}
