package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog cache keys. The lookup tables change a few times a year, so
// they get a generous TTL.
const (
	EstadosSierraKey = "catalogos:estados_sierra"
	TiposSierraKey   = "catalogos:tipos_sierra"
	TiposAfiladoKey  = "catalogos:tipos_afilado"

	CatalogoTTL = 12 * time.Hour
)

// ResumenTTL bounds how stale a cached daily resumen can get between
// invalidations.
const ResumenTTL = 5 * time.Minute

const authTTL = 15 * time.Minute

var client *redis.Client

// Init initializes the Redis connection. An empty addr leaves caching
// disabled; every helper tolerates a nil client.
func Init(addr, password string, db int) error {
	if addr == "" {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Auth entries are keyed by email alone so a password change can drop the
// entry without knowing the old password. The value carries a digest of
// the password that verified plus the usuario ID, so a cached entry never
// validates a different password.
func authKey(email string) string {
	h := sha256.Sum256([]byte(email))
	return "auth:" + hex.EncodeToString(h[:])[:32]
}

func passwordDigest(password string) string {
	h := sha256.Sum256([]byte(password))
	return hex.EncodeToString(h[:])
}

// GetCachedAuth checks if the given credentials were verified recently
func GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	val, err := client.Get(ctx, authKey(email)).Result()
	if err != nil {
		return 0, false
	}
	digest, idPart, ok := strings.Cut(val, ":")
	if !ok || digest != passwordDigest(password) {
		return 0, false
	}
	usuarioID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, false
	}
	return usuarioID, true
}

// CacheAuth caches verified credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password string, usuarioID int64) {
	if client == nil {
		return
	}
	val := passwordDigest(password) + ":" + strconv.FormatInt(usuarioID, 10)
	client.Set(ctx, authKey(email), val, authTTL)
}

// InvalidateAuth drops the cached login of one email, on password change
func InvalidateAuth(ctx context.Context, email string) {
	if client == nil {
		return
	}
	client.Del(ctx, authKey(email))
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// ResumenKey is the cache key of one day's resumen
func ResumenKey(date time.Time) string {
	return "dashboard:resumen:" + date.Format("2006-01-02")
}

// InvalidateResumen drops every cached daily resumen. The resumen is
// computed from afilados and sierras, so the handlers that register
// intakes, commit or reverse salidas and bajas, and mutate sierras all
// call this after a successful write.
func InvalidateResumen(ctx context.Context) {
	InvalidatePattern(ctx, "dashboard:resumen:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
