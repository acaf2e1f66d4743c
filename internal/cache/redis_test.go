package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startCache(t *testing.T) {
	t.Helper()
	srv := miniredis.RunT(t)
	require.NoError(t, Init(srv.Addr(), "", 0))
	t.Cleanup(func() {
		client.Close()
		client = nil
	})
}

func TestAuthCacheMatchesOnlyTheCachedPassword(t *testing.T) {
	startCache(t)
	ctx := context.Background()

	CacheAuth(ctx, "ana@sierras.cl", "secreta123", 42)

	usuarioID, ok := GetCachedAuth(ctx, "ana@sierras.cl", "secreta123")
	require.True(t, ok)
	assert.Equal(t, int64(42), usuarioID)

	_, ok = GetCachedAuth(ctx, "ana@sierras.cl", "otra-clave")
	assert.False(t, ok, "a cached entry must not validate a different password")
}

func TestInvalidateAuthDropsTheEntry(t *testing.T) {
	startCache(t)
	ctx := context.Background()

	CacheAuth(ctx, "ana@sierras.cl", "secreta123", 42)
	InvalidateAuth(ctx, "ana@sierras.cl")

	_, ok := GetCachedAuth(ctx, "ana@sierras.cl", "secreta123")
	assert.False(t, ok, "the old password must not verify after invalidation")
}

func TestInvalidateResumenDropsEveryDay(t *testing.T) {
	startCache(t)
	ctx := context.Background()

	hoy := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ayer := hoy.AddDate(0, 0, -1)
	SetCached(ctx, ResumenKey(hoy), []byte(`{"Total":3}`), ResumenTTL)
	SetCached(ctx, ResumenKey(ayer), []byte(`{"Total":8}`), ResumenTTL)

	InvalidateResumen(ctx)

	if _, ok := GetCached(ctx, ResumenKey(hoy)); ok {
		t.Fatal("resumen de hoy sigue cacheado")
	}
	if _, ok := GetCached(ctx, ResumenKey(ayer)); ok {
		t.Fatal("resumen de ayer sigue cacheado")
	}
}

func TestDisabledCacheIsANoOp(t *testing.T) {
	ctx := context.Background()

	CacheAuth(ctx, "ana@sierras.cl", "secreta123", 42)
	_, ok := GetCachedAuth(ctx, "ana@sierras.cl", "secreta123")
	assert.False(t, ok)

	SetCached(ctx, "x", []byte("y"), time.Minute)
	_, ok = GetCached(ctx, "x")
	assert.False(t, ok)
}
