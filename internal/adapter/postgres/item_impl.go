package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/collection-service/internal/entity"
)

// ItemRepoImpl provides a concrete implementation for the ItemRepository interface using PostgreSQL.
type ItemRepoImpl struct {
	db *pgxpool.Pool
}

// NewItemRepo creates a new instance of ItemRepoImpl.
func NewItemRepo(db *pgxpool.Pool) *ItemRepoImpl {
	return &ItemRepoImpl{db: db}
}

// Save inserts a new item.
func (r *ItemRepoImpl) Save(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, user_id, name, brand, url, price, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Name,
		item.Brand,
		item.URL,
		item.Price,
		item.Notes,
		item.CreatedAt,
	)
	return err
}

// ListByUser retrieves every item owned by the user, newest first.
func (r *ItemRepoImpl) ListByUser(ctx context.Context, userID string) ([]*entity.Item, error) {
	query := `
		SELECT id, user_id, name, brand, url, price, notes, created_at
		FROM items
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		var item entity.Item
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Name,
			&item.Brand,
			&item.URL,
			&item.Price,
			&item.Notes,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
