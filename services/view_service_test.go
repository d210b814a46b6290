package services_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/services"
)

func TestIPHashStableWithinBucket(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 10, 0, 0, time.UTC)
	later := base.Add(5 * time.Hour) // still inside the 6h bucket

	assert.Equal(t, services.IPHash("1.2.3.4", base), services.IPHash("1.2.3.4", later))
}

func TestIPHashChangesAcrossBuckets(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	next := base.Add(6 * time.Hour)

	assert.NotEqual(t, services.IPHash("1.2.3.4", base), services.IPHash("1.2.3.4", next))
}

func TestIPHashDistinctPerClient(t *testing.T) {
	at := time.Now()
	assert.NotEqual(t, services.IPHash("1.2.3.4", at), services.IPHash("4.3.2.1", at))
}

func TestClientIPPrecedence(t *testing.T) {
	r := httptest.NewRequest("POST", "/views", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	r.Header.Set("CF-Connecting-IP", "10.0.0.3")
	r.Header.Set("X-Real-IP", "10.0.0.4")
	assert.Equal(t, "10.0.0.1", services.ClientIP(r))

	r.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.3", services.ClientIP(r))

	r.Header.Del("CF-Connecting-IP")
	assert.Equal(t, "10.0.0.4", services.ClientIP(r))

	r.Header.Del("X-Real-IP")
	assert.Equal(t, "0.0.0.0", services.ClientIP(r))
}

func TestTrackCountsOncePerClientPerBucket(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("busy-post", "Busy"))
	events := newFakeViewEventStore()
	svc := services.NewViewService(store, events)

	limited, err := svc.Track(ctx, "busy-post", "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, limited)

	limited, err = svc.Track(ctx, "busy-post", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, limited)

	assert.Equal(t, 1, store.incs["busy-post"])
}

func TestTrackCountsDistinctClients(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("busy-post", "Busy"))
	svc := services.NewViewService(store, newFakeViewEventStore())

	for _, ip := range []string{"1.2.3.4", "4.3.2.1"} {
		limited, err := svc.Track(ctx, "busy-post", ip)
		require.NoError(t, err)
		assert.False(t, limited)
	}

	assert.Equal(t, 2, store.incs["busy-post"])
}

func TestTrackNormalizesSlug(t *testing.T) {
	ctx := context.Background()
	store := newFakePostStore(seedPost("busy-post", "Busy"))
	svc := services.NewViewService(store, newFakeViewEventStore())

	limited, err := svc.Track(ctx, "  Busy-Post ", "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, limited)

	limited, err = svc.Track(ctx, "busy-post", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, limited)
}
