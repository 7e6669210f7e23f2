package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
)

// CommunityRepoImpl provides a concrete implementation for the CommunityRepository interface using PostgreSQL.
type CommunityRepoImpl struct {
	db *pgxpool.Pool
}

// NewCommunityRepo creates a new instance of CommunityRepoImpl.
func NewCommunityRepo(db *pgxpool.Pool) *CommunityRepoImpl {
	return &CommunityRepoImpl{db: db}
}

const communityRecordColumns = `id, domain, fields, verification_count, report_count, created_at, updated_at`

// Search retrieves records whose domain matches the query, most verified first.
func (r *CommunityRepoImpl) Search(ctx context.Context, query string, limit, offset int) ([]*entity.CommunityRecord, error) {
	sql := `
		SELECT ` + communityRecordColumns + `
		FROM community_records
		WHERE ($1 = '' OR domain ILIKE '%' || $1 || '%')
		ORDER BY verification_count DESC, domain ASC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, sql, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.CommunityRecord
	for rows.Next() {
		record, err := scanCommunityRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// FindByID retrieves a single record.
func (r *CommunityRepoImpl) FindByID(ctx context.Context, id string) (*entity.CommunityRecord, error) {
	sql := `
		SELECT ` + communityRecordColumns + `
		FROM community_records
		WHERE id = $1;
	`
	record, err := scanCommunityRecord(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommunityRecord(row rowScanner) (*entity.CommunityRecord, error) {
	var record entity.CommunityRecord
	var fieldsJSON []byte
	err := row.Scan(
		&record.ID,
		&record.Domain,
		&fieldsJSON,
		&record.VerificationCount,
		&record.ReportCount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err // pgx.ErrNoRows will be returned if not found
	}
	if err := json.Unmarshal(fieldsJSON, &record.Fields); err != nil {
		return nil, err
	}
	return &record, nil
}
