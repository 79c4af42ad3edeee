package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/exportfile"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type ExportResult struct {
	Envelope  *exportfile.Envelope
	ItemCount int
}

type ImportItemResult struct {
	Index    int
	Title    string
	Imported bool
	Reason   string
}

type ImportResult struct {
	Imported int
	Total    int
	Results  []ImportItemResult
}

// TransferService moves a whole vault in and out of export envelopes.
type TransferService struct {
	db    *database.DB
	vault *VaultService
	log   zerolog.Logger
	now   func() time.Time
}

func NewTransferService(db *database.DB, vault *VaultService, log zerolog.Logger) *TransferService {
	return &TransferService{
		db:    db,
		vault: vault,
		log:   log,
		now:   time.Now,
	}
}

func (s *TransferService) Export(ctx context.Context, owner *models.User, passphrase string) (*ExportResult, error) {
	if passphrase == "" {
		return nil, validation.New("exportPassword", "exportPassword is required")
	}

	items, err := s.vault.List(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vault items: %w", err)
	}

	payload := exportfile.Payload{
		Version:    exportfile.Version,
		ExportDate: s.now().UTC(),
		OwnerEmail: owner.Email,
		Items:      make([]exportfile.Item, 0, len(items)),
	}
	for _, item := range items {
		created, updated := item.CreatedAt, item.UpdatedAt
		payload.Items = append(payload.Items, exportfile.Item{
			Title:     item.Title,
			Username:  item.Username,
			Password:  item.Password,
			URL:       item.URL,
			Notes:     item.Notes,
			CreatedAt: &created,
			UpdatedAt: &updated,
		})
	}

	env, err := exportfile.Seal(payload, passphrase)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", owner.ID.String()).Int("items", len(items)).Msg("vault exported")
	return &ExportResult{Envelope: env, ItemCount: len(items)}, nil
}

// Import opens env and inserts its items under ownerID. Ownership in the file
// is never consulted. Items that fail validation or insertion are reported and
// skipped. With replace set, the purge and all inserts share one transaction
// and each item runs under its own savepoint, so a crash leaves the previous
// vault untouched.
func (s *TransferService) Import(ctx context.Context, ownerID uuid.UUID, env exportfile.Envelope, passphrase string, replace bool) (*ImportResult, error) {
	if passphrase == "" {
		return nil, validation.New("importPassword", "importPassword is required")
	}

	payload, err := exportfile.Open(env, passphrase)
	if err != nil {
		return nil, err
	}

	var result *ImportResult
	if replace {
		result, err = s.replaceAll(ctx, ownerID, payload.Items)
	} else {
		result, err = s.appendAll(ctx, ownerID, payload.Items)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", ownerID.String()).
		Int("imported", result.Imported).
		Int("total", result.Total).
		Bool("replace", replace).
		Msg("vault imported")
	return result, nil
}

func (s *TransferService) appendAll(ctx context.Context, ownerID uuid.UUID, items []exportfile.Item) (*ImportResult, error) {
	result := &ImportResult{Total: len(items), Results: make([]ImportItemResult, 0, len(items))}

	for i, item := range items {
		res := ImportItemResult{Index: i, Title: item.Title}
		in, err := importInput(item)
		if err == nil {
			_, err = insertVaultItem(ctx, s.db.Pool, ownerID, in)
		}
		s.record(result, res, err)
	}
	return result, nil
}

func (s *TransferService) replaceAll(ctx context.Context, ownerID uuid.UUID, items []exportfile.Item) (*ImportResult, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := deleteAllVaultItems(ctx, tx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to clear vault: %w", err)
	}

	result := &ImportResult{Total: len(items), Results: make([]ImportItemResult, 0, len(items))}
	for i, item := range items {
		res := ImportItemResult{Index: i, Title: item.Title}
		in, err := importInput(item)
		if err == nil {
			err = insertWithSavepoint(ctx, tx, ownerID, in)
		}
		if err != nil && !isItemError(err) {
			return nil, err
		}
		s.record(result, res, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return result, nil
}

// itemError marks a failure scoped to one item that has already been rolled
// back to its savepoint.
type itemError struct{ err error }

func (e *itemError) Error() string { return e.err.Error() }
func (e *itemError) Unwrap() error { return e.err }

func isItemError(err error) bool {
	var ie *itemError
	var ve *validation.Error
	return errors.As(err, &ie) || errors.As(err, &ve)
}

func insertWithSavepoint(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, in VaultItemInput) error {
	if _, err := tx.Exec(ctx, "SAVEPOINT import_item"); err != nil {
		return err
	}
	if _, err := insertVaultItem(ctx, tx, ownerID, in); err != nil {
		if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT import_item"); rbErr != nil {
			return rbErr
		}
		return &itemError{err: err}
	}
	_, err := tx.Exec(ctx, "RELEASE SAVEPOINT import_item")
	return err
}

func importInput(item exportfile.Item) (VaultItemInput, error) {
	return VaultItemInput{
		Title:    item.Title,
		Username: item.Username,
		Password: item.Password,
		URL:      item.URL,
		Notes:    item.Notes,
	}.Validate()
}

func (s *TransferService) record(result *ImportResult, res ImportItemResult, err error) {
	if err != nil {
		res.Reason = importReason(err)
		s.log.Warn().Err(err).Int("index", res.Index).Msg("skipped import item")
	} else {
		res.Imported = true
		result.Imported++
	}
	result.Results = append(result.Results, res)
}

func importReason(err error) string {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "failed to store item"
}
