package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestRedisClient starts an in-memory server and a client bound to a non-default DB.
// Both are closed when the test ends.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redislib.NewClient(&redislib.Options{
		Addr:     mr.Addr(),
		DB:       1,
		PoolSize: 4,
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
