package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultKeyPrefix namespaces all cache keys. The hash tag keeps every key of one
	// cache in the same cluster slot so the Lua scripts below stay valid on Redis Cluster.
	defaultKeyPrefix = "{rfcache}:"

	redisOpTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache implements Cache on Redis/Valkey with application-level LRU ordering.
//
// Each value lives in its own string key ({prefix}v:<key>) written with PX so Redis expires
// it on its own. Two sorted sets track the members:
//
//   - {prefix}lru: score = last access in µs, used to pick eviction victims.
//   - {prefix}exp: score = absolute expiry in ms, used to drop expired members
//     before counting or evicting.
//
// Works on any Redis 6+ / Valkey server; no per-field hash TTL is needed.
type redisCache struct {
	client    *redis.Client
	ttl       time.Duration
	maxSize   int
	onEvict   EvictCallback
	logger    Logger
	keyPrefix string
	lruKey    string
	expKey    string
}

// purgeExpired removes members whose expiry has passed and returns them.
//
// KEYS[1] = lru set, KEYS[2] = exp set
// ARGV[1] = now in ms
const purgeExpiredLua = `
local expired = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', ARGV[1])
if #expired > 0 then
    redis.call('ZREM', KEYS[1], unpack(expired))
    redis.call('ZREM', KEYS[2], unpack(expired))
end
return expired
`

// getAndTouch reads a value and bumps its recency. Reads never extend the TTL.
//
// KEYS[1] = value key, KEYS[2] = lru set
// ARGV[1] = now in µs, ARGV[2] = member
var getAndTouch = redis.NewScript(`
local val = redis.call('GET', KEYS[1])
if val then
    redis.call('ZADD', KEYS[2], 'XX', ARGV[1], ARGV[2])
end
return val
`)

// setAndEvict writes a value, records recency and expiry, then evicts least-recently-used
// members while the cache is over capacity. Expired members are dropped first so they never
// count against capacity.
//
// KEYS[1] = lru set, KEYS[2] = exp set
// ARGV[1] = now in ms, ARGV[2] = now in µs, ARGV[3] = member, ARGV[4] = value,
// ARGV[5] = ttl in ms, ARGV[6] = max size, ARGV[7] = value key prefix
//
// Returns {expired members, evicted members}.
var setAndEvict = redis.NewScript(purgeExpiredLua + `
local now      = tonumber(ARGV[1])
local member   = ARGV[3]
local ttlMs    = tonumber(ARGV[5])
local maxSize  = tonumber(ARGV[6])
local prefix   = ARGV[7]

redis.call('SET', prefix .. member, ARGV[4], 'PX', ttlMs)
redis.call('ZADD', KEYS[1], ARGV[2], member)
redis.call('ZADD', KEYS[2], now + ttlMs, member)

local evicted = {}
local size = redis.call('ZCARD', KEYS[1])
while size > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[1], 1)
    if #oldest == 0 then break end
    local victim = oldest[1]
    redis.call('ZREM', KEYS[2], victim)
    redis.call('DEL', prefix .. victim)
    table.insert(evicted, victim)
    size = size - 1
end

return {expired, evicted}
`)

// countLive drops expired members and returns the number of live entries.
//
// KEYS[1] = lru set, KEYS[2] = exp set
// ARGV[1] = now in ms
var countLive = redis.NewScript(purgeExpiredLua + `
return {expired, redis.call('ZCARD', KEYS[1])}
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	if cfg.Size <= 0 {
		cfg.Size = defaultSize
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("redis cache requires a positive TTL, got %s", cfg.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisCache{
		client:    client,
		ttl:       cfg.TTL,
		maxSize:   cfg.Size,
		onEvict:   cfg.OnEvict,
		logger:    cfg.Logger,
		keyPrefix: prefix + "v:",
		lruKey:    prefix + "lru",
		expKey:    prefix + "exp",
	}, nil
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisCache) notify(members ...[]string) {
	if r.onEvict == nil {
		return
	}
	for _, group := range members {
		for _, key := range group {
			r.onEvict(key)
		}
	}
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	result, err := getAndTouch.Run(ctx, r.client, []string{r.keyPrefix + key, r.lruKey}, now, key).Text()
	if err != nil {
		// redis.Nil is a plain miss
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache Get failed", err)
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	now := time.Now()
	res, err := setAndEvict.Run(ctx, r.client, []string{r.lruKey, r.expKey},
		now.UnixMilli(),
		now.UnixMicro(),
		key,
		value,
		r.ttl.Milliseconds(),
		r.maxSize,
		r.keyPrefix,
	).Slice()
	if err != nil {
		r.logError("redis cache Set failed", err)
		return
	}

	if len(res) == 2 {
		r.notify(toStrings(res[0]), toStrings(res[1]))
	}
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	res, err := countLive.Run(ctx, r.client, []string{r.lruKey, r.expKey}, time.Now().UnixMilli()).Slice()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	if len(res) != 2 {
		return 0
	}
	r.notify(toStrings(res[0]))
	n, _ := res[1].(int64)
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}

// toStrings converts a Lua array reply into its string members.
func toStrings(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
