package session

import (
	"context"
	"testing"
	"time"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl, logger.NewTestLogger(t)), mr
}

func sampleConsultation() models.Consultation {
	c := models.Consultation{
		ID:           "c-42",
		EmployeeName: "Jordan Example",
		Prediction:   models.PredictionResult{Probability: 0.93, Verdict: true, Threshold: 0.68},
		Tier:         models.RiskHigh,
		Factors: []models.Factor{
			{Field: "OverTime", Display: "OverTime: Yes", Direction: "raises", ScaledValue: 1.6},
		},
	}
	return c.WithTurn(models.RoleUser, "request").WithTurn(models.RoleAssistant, "strategy")
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	in := sampleConsultation()

	require.NoError(t, store.Put(context.Background(), in))

	out, err := store.Get(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newStore(t, time.Hour)

	_, err := store.Get(context.Background(), "never-stored")
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSessionNotFound, commonerrors.CodeOf(err))
}

func TestStore_EntriesExpire(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	in := sampleConsultation()

	require.NoError(t, store.Put(context.Background(), in))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(context.Background(), in.ID)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSessionNotFound, commonerrors.CodeOf(err))
}

func TestStore_PutResetsTTL(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	in := sampleConsultation()

	require.NoError(t, store.Put(context.Background(), in))
	mr.FastForward(45 * time.Second)

	// An active conversation re-puts the consultation and stays alive.
	in = in.WithTurn(models.RoleUser, "follow-up")
	require.NoError(t, store.Put(context.Background(), in))
	mr.FastForward(45 * time.Second)

	out, err := store.Get(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Len(t, out.History, 3)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	in := sampleConsultation()

	require.NoError(t, store.Put(context.Background(), in))
	require.NoError(t, store.Delete(context.Background(), in.ID))

	_, err := store.Get(context.Background(), in.ID)
	assert.Equal(t, commonerrors.ErrCodeSessionNotFound, commonerrors.CodeOf(err))

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(context.Background(), in.ID))
}

func TestStore_TransportFailure(t *testing.T) {
	store, mr := newStore(t, time.Hour)
	mr.Close()

	err := store.Put(context.Background(), sampleConsultation())
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSessionStoreFailed, commonerrors.CodeOf(err))

	_, err = store.Get(context.Background(), "c-42")
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeSessionStoreFailed, commonerrors.CodeOf(err))
}
