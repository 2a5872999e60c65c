// internal/dating/locker.go

package dating

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const lockPrefix = "matching:lock:"

// Locker serialises match generation per user. Acquire returns ErrLocked when
// another holder has the key; the returned func releases it.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// releaseLua deletes the lock only if we still own it.
const releaseLua = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLocker holds locks as expiring Redis keys so they are shared across replicas
type RedisLocker struct {
	rdb           *redis.Client
	ttl           time.Duration
	releaseScript *redis.Script
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb:           rdb,
		ttl:           ttl,
		releaseScript: redis.NewScript(releaseLua),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()

	ok, err := l.rdb.SetNX(ctx, lockPrefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		// The request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		l.releaseScript.Run(releaseCtx, l.rdb, []string{lockPrefix + key}, token)
	}, nil
}

// LocalLocker is an in-process Locker for single-instance deployments and tests
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, ErrLocked
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
