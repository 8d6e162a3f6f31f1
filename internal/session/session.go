// Package session stores consultation state in Redis between API calls.
// The engagement service is stateless and the API is request/response, so
// the consultation a chat turn continues must be fetched by ID, updated,
// and written back. Entries expire after the configured TTL; an expired
// consultation is simply gone and the caller starts a new analysis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "consultation:"

// Store keeps consultations in Redis keyed by consultation ID.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "session-store"}),
	}
}

// Put writes a consultation and resets its TTL. Every successful chat turn
// re-puts the consultation, so active conversations stay alive and
// abandoned ones age out.
func (s *Store) Put(ctx context.Context, c models.Consultation) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	if err := s.client.Set(ctx, keyPrefix+c.ID, payload, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Error("session write failed", map[string]interface{}{
			"consultationId": c.ID,
		})
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Get fetches a consultation by ID. A missing or expired entry yields
// SESSION_NOT_FOUND; transport failures yield SESSION_STORE_FAILED.
func (s *Store) Get(ctx context.Context, id string) (models.Consultation, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Consultation{}, commonerrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return models.Consultation{}, commonerrors.NewSessionStoreFailedError(err)
	}

	var c models.Consultation
	if err := json.Unmarshal(payload, &c); err != nil {
		return models.Consultation{}, commonerrors.NewSessionStoreFailedError(err)
	}
	return c, nil
}

// Delete removes a consultation. Deleting an absent entry is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}
