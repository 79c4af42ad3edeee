package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var vaultItemColumns = []string{
	"id", "owner_id", "title", "username", "password", "url", "notes", "created_at", "updated_at",
}

// VaultItemInput is the full set of writable fields. Password and Notes are
// opaque client ciphertext.
type VaultItemInput struct {
	Title    string `json:"title" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
	URL      string `json:"url" validate:"max=500"`
	Notes    string `json:"notes" validate:"max=1000"`
}

func (in VaultItemInput) normalize() VaultItemInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Username = strings.TrimSpace(in.Username)
	in.URL = strings.TrimSpace(in.URL)
	return in
}

// Validate normalizes in and checks the field limits.
func (in VaultItemInput) Validate() (VaultItemInput, error) {
	in = in.normalize()
	if err := validation.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type VaultService struct {
	db *database.DB
}

func NewVaultService(db *database.DB) *VaultService {
	return &VaultService{db: db}
}

func scanVaultItem(row pgx.Row) (*models.VaultItem, error) {
	var item models.VaultItem
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Username, &item.Password,
		&item.URL, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the owner's items, newest first.
func (s *VaultService) List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultItem, error) {
	query, args, err := psql.Select(vaultItemColumns...).
		From("vault_items").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.VaultItem{}
	for rows.Next() {
		item, err := scanVaultItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *VaultService) Create(ctx context.Context, ownerID uuid.UUID, in VaultItemInput) (*models.VaultItem, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, err
	}
	return insertVaultItem(ctx, s.db.Pool, ownerID, in)
}

func insertVaultItem(ctx context.Context, q querier, ownerID uuid.UUID, in VaultItemInput) (*models.VaultItem, error) {
	query, args, err := psql.Insert("vault_items").
		Columns("owner_id", "title", "username", "password", "url", "notes").
		Values(ownerID, in.Title, in.Username, in.Password, in.URL, in.Notes).
		Suffix("RETURNING " + strings.Join(vaultItemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	item, err := scanVaultItem(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert vault item: %w", err)
	}
	return item, nil
}

// Update replaces every writable field. The owner predicate is part of the
// UPDATE itself, so an item owned by someone else reads as not found.
func (s *VaultService) Update(ctx context.Context, ownerID, itemID uuid.UUID, in VaultItemInput) (*models.VaultItem, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Update("vault_items").
		Set("title", in.Title).
		Set("username", in.Username).
		Set("password", in.Password).
		Set("url", in.URL).
		Set("notes", in.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": itemID, "owner_id": ownerID}).
		Suffix("RETURNING " + strings.Join(vaultItemColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	item, err := scanVaultItem(s.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVaultItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *VaultService) Delete(ctx context.Context, ownerID, itemID uuid.UUID) error {
	query, args, err := psql.Delete("vault_items").
		Where(sq.Eq{"id": itemID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := s.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVaultItemNotFound
	}
	return nil
}

func deleteAllVaultItems(ctx context.Context, q querier, ownerID uuid.UUID) (int64, error) {
	query, args, err := psql.Delete("vault_items").
		Where(sq.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
