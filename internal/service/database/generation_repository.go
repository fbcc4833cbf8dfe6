package database

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/pkg/errors"
)

const uniqueViolation = "23505"

// GenerationRepository persists generations with the layout as opaque JSONB.
// Every read path passes the stored layout back through the normalizer.
type GenerationRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewGenerationRepository(ps *PostgresService, logger *zap.Logger) *GenerationRepository {
	return &GenerationRepository{
		db:     ps.GetDB(),
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

type generationRow struct {
	id         string
	ownerID    string
	prompt     string
	layout     []byte
	shareToken string
	createdAt  time.Time
	updatedAt  time.Time
}

func (r generationRow) toDomain() domain.Generation {
	layout := normalize.FromJSON(r.layout)
	return domain.Generation{
		ID:         r.id,
		OwnerID:    r.ownerID,
		Prompt:     r.prompt,
		Layout:     layout,
		ShareToken: r.shareToken,
		SiteName:   layout.SiteName(),
		ThemeStyle: layout.ThemeStyle,
		CreatedAt:  r.createdAt,
		UpdatedAt:  r.updatedAt,
	}
}

const selectColumns = `SELECT id, owner_id, prompt, layout, share_token, created_at, updated_at FROM generations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (generationRow, error) {
	var row generationRow
	err := s.Scan(&row.id, &row.ownerID, &row.prompt, &row.layout, &row.shareToken, &row.createdAt, &row.updatedAt)
	return row, err
}

// Create stores a new generation and returns its id and share token.
func (r *GenerationRepository) Create(ctx context.Context, ownerID, prompt string, layout domain.Layout) (domain.RecordRef, error) {
	raw, err := json.Marshal(layout)
	if err != nil {
		return domain.RecordRef{}, errors.NewStorageFailure("create", err)
	}

	now := r.now()
	ref := domain.RecordRef{ID: r.newID()}

	// A share token collision is retried once with a fresh token.
	for attempt := 0; attempt < 2; attempt++ {
		ref.ShareToken = r.newID()
		_, err = r.db.ExecContext(ctx, `INSERT INTO generations
			(id, owner_id, prompt, layout, share_token, site_name, theme_style, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			ref.ID, ownerID, prompt, raw, ref.ShareToken, layout.SiteName(), string(layout.ThemeStyle), now,
		)
		if !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		r.logger.Error("Failed to create generation", zap.String("owner", ownerID), zap.Error(err))
		return domain.RecordRef{}, errors.NewStorageFailure("create", err)
	}

	r.logger.Info("Generation saved",
		zap.String("id", ref.ID),
		zap.String("owner", ownerID),
		zap.String("site", layout.SiteName()),
	)
	return ref, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// checkOwner returns NOT_FOUND for unknown ids and FORBIDDEN for another owner's record.
func (r *GenerationRepository) checkOwner(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewNotFound("generation", id)
	}

	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM generations WHERE id = $1`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return errors.NewNotFound("generation", id)
	}
	if err != nil {
		return errors.NewStorageFailure("owner check", err)
	}
	if owner != ownerID {
		r.logger.Warn("Generation owner mismatch", zap.String("id", id), zap.String("caller", ownerID))
		return errors.NewForbidden("generation", id)
	}
	return nil
}

// Update replaces the layout in place. An empty prompt keeps the stored one.
func (r *GenerationRepository) Update(ctx context.Context, id, ownerID string, layout domain.Layout, prompt string) error {
	if err := r.checkOwner(ctx, id, ownerID); err != nil {
		return err
	}

	raw, err := json.Marshal(layout)
	if err != nil {
		return errors.NewStorageFailure("update", err)
	}

	_, err = r.db.ExecContext(ctx, `UPDATE generations
		SET layout = $1, prompt = COALESCE(NULLIF($2, ''), prompt), site_name = $3, theme_style = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7`,
		raw, prompt, layout.SiteName(), string(layout.ThemeStyle), r.now(), id, ownerID,
	)
	if err != nil {
		r.logger.Error("Failed to update generation", zap.String("id", id), zap.Error(err))
		return errors.NewStorageFailure("update", err)
	}
	return nil
}

// ListByOwner returns the owner's generations, newest first.
func (r *GenerationRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Generation, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2`,
		ownerID, constants.DatabaseConfig.ListLimit)
	if err != nil {
		return nil, errors.NewStorageFailure("list", err)
	}
	defer rows.Close()

	var raw []generationRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, errors.NewStorageFailure("list", err)
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailure("list", err)
	}

	return decodeAll(raw), nil
}

// decodeAll renormalizes stored layouts concurrently, preserving order.
func decodeAll(rows []generationRow) []domain.Generation {
	out := make([]domain.Generation, len(rows))
	p := pool.New().WithMaxGoroutines(constants.DatabaseConfig.ListConcurrency)
	for idx, row := range rows {
		p.Go(func() {
			out[idx] = row.toDomain()
		})
	}
	p.Wait()
	return out
}

// Get returns one generation owned by ownerID.
func (r *GenerationRepository) Get(ctx context.Context, id, ownerID string) (*domain.Generation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewNotFound("generation", id)
	}

	row, err := scanRow(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("generation", id)
	}
	if err != nil {
		return nil, errors.NewStorageFailure("get", err)
	}
	if row.ownerID != ownerID {
		return nil, errors.NewForbidden("generation", id)
	}

	g := row.toDomain()
	return &g, nil
}

// GetByShareToken returns nil, nil when no generation has the token.
func (r *GenerationRepository) GetByShareToken(ctx context.Context, token string) (*domain.Generation, error) {
	row, err := scanRow(r.db.QueryRowContext(ctx, selectColumns+` WHERE share_token = $1`, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageFailure("get by share token", err)
	}

	g := row.toDomain()
	return &g, nil
}

func (r *GenerationRepository) Delete(ctx context.Context, id, ownerID string) error {
	if err := r.checkOwner(ctx, id, ownerID); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM generations WHERE id = $1 AND owner_id = $2`, id, ownerID); err != nil {
		r.logger.Error("Failed to delete generation", zap.String("id", id), zap.Error(err))
		return errors.NewStorageFailure("delete", err)
	}

	r.logger.Info("Generation deleted", zap.String("id", id), zap.String("owner", ownerID))
	return nil
}
