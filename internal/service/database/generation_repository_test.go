package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/normalize"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

const (
	recordID = "0b0f6c2e-3d7a-4c55-9a1e-6f5d2b8e9a10"
	owner    = "user_1"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*GenerationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewGenerationRepository(NewPostgresServiceFromDB(db, zap.NewNop()), zap.NewNop())
	repo.now = func() time.Time { return fixedNow }
	n := 0
	repo.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return repo, mock
}

func gymLayout() domain.Layout {
	return normalize.Normalize(map[string]any{
		"themeStyle": "bold",
		"branding":   map[string]any{"logoText": "Iron Pulse"},
		"sections": []any{
			map[string]any{"type": "pricing", "plans": []any{map[string]any{"name": "Pro", "price": "$59", "features": []any{"Classes"}}}},
		},
	})
}

var generationColumns = []string{"id", "owner_id", "prompt", "layout", "share_token", "created_at", "updated_at"}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS generations").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewPostgresServiceFromDB(db, zap.NewNop()).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("INSERT INTO generations").
		WithArgs("id-1", owner, "Modern gym", sqlmock.AnyArg(), "id-2", "Iron Pulse", "bold", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ref, err := repo.Create(context.Background(), owner, "Modern gym", gymLayout())
	require.NoError(t, err)
	assert.Equal(t, domain.RecordRef{ID: "id-1", ShareToken: "id-2"}, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRetriesShareTokenCollision(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("INSERT INTO generations").
		WithArgs("id-1", owner, "p", sqlmock.AnyArg(), "id-2", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectExec("INSERT INTO generations").
		WithArgs("id-1", owner, "p", sqlmock.AnyArg(), "id-3", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ref, err := repo.Create(context.Background(), owner, "p", gymLayout())
	require.NoError(t, err)
	assert.Equal(t, "id-3", ref.ShareToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStorageFailure(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectExec("INSERT INTO generations").WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), owner, "p", gymLayout())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageFailure))
}

func TestUpdateOwnership(t *testing.T) {
	ownerQuery := regexp.QuoteMeta("SELECT owner_id FROM generations WHERE id = $1")

	t.Run("owner", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(ownerQuery).WithArgs(recordID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(owner))
		mock.ExpectExec("UPDATE generations").
			WithArgs(sqlmock.AnyArg(), "recolor", "Iron Pulse", "bold", fixedNow, recordID, owner).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), recordID, owner, gymLayout(), "recolor"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other owner", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(ownerQuery).WithArgs(recordID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("someone_else"))

		err := repo.Update(context.Background(), recordID, owner, gymLayout(), "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(ownerQuery).WithArgs(recordID).WillReturnError(sql.ErrNoRows)

		err := repo.Update(context.Background(), recordID, owner, gymLayout(), "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})

	t.Run("malformed id", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		err := repo.Update(context.Background(), "not-a-uuid", owner, gymLayout(), "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListByOwnerRenormalizes(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := sqlmock.NewRows(generationColumns)
	for i := 0; i < 12; i++ {
		// Stored in an older shape: "plans" instead of pricingOptions, no themeStyle.
		raw := fmt.Sprintf(`{"branding":{"name":"Site %d"},"sections":[{"type":"pricing","plans":["Basic"]},{"type":"gallery"}]}`, i)
		rows.AddRow(fmt.Sprintf("id-%d", i), owner, "p", []byte(raw), fmt.Sprintf("tok-%d", i), fixedNow, fixedNow)
	}
	mock.ExpectQuery("SELECT id, owner_id, prompt, layout, share_token, created_at, updated_at FROM generations WHERE owner_id").
		WithArgs(owner, 100).
		WillReturnRows(rows)

	list, err := repo.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 12)

	for i, g := range list {
		assert.Equal(t, fmt.Sprintf("id-%d", i), g.ID)
		assert.Equal(t, fmt.Sprintf("Site %d", i), g.SiteName)
		assert.Equal(t, domain.DefaultThemeStyle, g.ThemeStyle)
		assert.Equal(t, []domain.SectionType{domain.SectionPricing}, g.Layout.SectionTypes())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChecksOwner(t *testing.T) {
	repo, mock := newTestRepo(t)
	row := func(ownerID string) *sqlmock.Rows {
		return sqlmock.NewRows(generationColumns).
			AddRow(recordID, ownerID, "p", []byte(`{"sections":[{"type":"hero","headline":"Hi"}]}`), "tok", fixedNow, fixedNow)
	}

	mock.ExpectQuery("FROM generations WHERE id").WithArgs(recordID).WillReturnRows(row(owner))
	g, err := repo.Get(context.Background(), recordID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Hi", g.Layout.Sections[0].GetHeadline())

	mock.ExpectQuery("FROM generations WHERE id").WithArgs(recordID).WillReturnRows(row("other"))
	_, err = repo.Get(context.Background(), recordID, owner)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestGetByShareToken(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("FROM generations WHERE share_token").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	g, err := repo.GetByShareToken(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, g)

	mock.ExpectQuery("FROM generations WHERE share_token").WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(generationColumns).AddRow(recordID, owner, "p", []byte(`null`), "tok", fixedNow, fixedNow))
	g, err = repo.GetByShareToken(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, normalize.Normalize(nil), g.Layout)
}

func TestDelete(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery("SELECT owner_id FROM generations").WithArgs(recordID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectExec("DELETE FROM generations").WithArgs(recordID, owner).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), recordID, owner))

	mock.ExpectQuery("SELECT owner_id FROM generations").WithArgs(recordID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("other"))
	err := repo.Delete(context.Background(), recordID, owner)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.NoError(t, mock.ExpectationsWereMet())
}
