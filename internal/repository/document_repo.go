package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"brainwave-backend/internal/models"
)

// ErrNotFound is returned by mutations that target an id the user's
// document does not contain.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write keeps losing the revision race.
var ErrConflict = errors.New("document revision conflict")

const (
	maxUpdateAttempts = 5
	cacheTTL          = 5 * time.Minute
)

// DocumentRepo stores one aggregate JSONB document per user, holding all of
// that user's flashcards and collections. Writes replace the whole document;
// a revision column with compare-and-swap keeps concurrent sessions from
// clobbering each other's updates.
type DocumentRepo struct {
	pool  *pgxpool.Pool
	cache *redis.Client
}

func NewDocumentRepo(pool *pgxpool.Pool, cache *redis.Client) *DocumentRepo {
	return &DocumentRepo{pool: pool, cache: cache}
}

func cacheKey(userID uuid.UUID) string {
	return "user_doc:" + userID.String()
}

// Get returns the user's document, initializing an empty one for users that
// have never written anything. Reads go through the Redis cache.
func (r *DocumentRepo) Get(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error) {
	if cached, err := r.cache.Get(ctx, cacheKey(userID)).Bytes(); err == nil {
		doc := models.NewUserDocument()
		if json.Unmarshal(cached, doc) == nil {
			return doc, nil
		}
	}

	doc, raw, _, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		r.cache.Set(ctx, cacheKey(userID), raw, cacheTTL)
	}
	return doc, nil
}

// load reads the document row. revision is 0 when the row does not exist.
func (r *DocumentRepo) load(ctx context.Context, userID uuid.UUID) (*models.UserDocument, []byte, int64, error) {
	var raw []byte
	var revision int64

	err := r.pool.QueryRow(ctx,
		"SELECT doc, revision FROM user_documents WHERE user_id = $1", userID,
	).Scan(&raw, &revision)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewUserDocument(), nil, 0, nil
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to load user document: %w", err)
	}

	doc := models.NewUserDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, nil, 0, fmt.Errorf("corrupt user document: %w", err)
	}
	return doc, raw, revision, nil
}

// Update applies mutate to the current document and writes the result back,
// retrying on revision conflicts. An unchanged document is not rewritten, so
// no-op mutations leave the stored bytes identical. Errors returned by
// mutate abort the update and pass through unchanged.
func (r *DocumentRepo) Update(ctx context.Context, userID uuid.UUID, mutate func(*models.UserDocument) error) (*models.UserDocument, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, oldRaw, revision, err := r.load(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := mutate(doc); err != nil {
			return nil, err
		}

		newRaw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode user document: %w", err)
		}
		if bytes.Equal(newRaw, oldRaw) {
			return doc, nil
		}

		if revision == 0 {
			tag, err := r.pool.Exec(ctx,
				`INSERT INTO user_documents (user_id, doc, revision)
				 VALUES ($1, $2, 1)
				 ON CONFLICT (user_id) DO NOTHING`,
				userID, newRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to insert user document: %w", err)
			}
			if tag.RowsAffected() == 1 {
				r.cache.Del(ctx, cacheKey(userID))
				return doc, nil
			}
			// Someone created the row first; reload and reapply.
			continue
		}

		tag, err := r.pool.Exec(ctx,
			`UPDATE user_documents
			 SET doc = $1, revision = revision + 1, updated_at = NOW()
			 WHERE user_id = $2 AND revision = $3`,
			newRaw, userID, revision)
		if err != nil {
			return nil, fmt.Errorf("failed to update user document: %w", err)
		}
		if tag.RowsAffected() == 1 {
			r.cache.Del(ctx, cacheKey(userID))
			return doc, nil
		}
	}

	return nil, ErrConflict
}
