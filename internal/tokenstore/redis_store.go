package tokenstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// redisStore keeps the session in Redis so a fleet of kiosk portals can
// share one signed-in session. Keys live under a configurable prefix:
// <prefix>:token and <prefix>:user.
type redisStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// RedisConfig holds the settings for a Redis-backed Store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL bounds how long a session may sit in Redis unused. Zero means
	// no expiry; the token's own exp claim still applies.
	TTL time.Duration
	// Timeout applies to each storage operation.
	Timeout time.Duration

	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedis returns a Redis-backed Store. It pings the server once so a
// misconfigured address fails at startup, not on first login.
func NewRedis(ctx context.Context, cfg *RedisConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "phygen:session"
	}

	return &redisStore{
		client:  client,
		prefix:  prefix,
		ttl:     cfg.TTL,
		timeout: timeout,
	}, nil
}

func (s *redisStore) tokenKey() string { return s.prefix + ":token" }
func (s *redisStore) userKey() string  { return s.prefix + ":user" }

func (s *redisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *redisStore) Token() string {
	ctx, cancel := s.ctx()
	defer cancel()
	token, err := s.client.Get(ctx, s.tokenKey()).Result()
	if err != nil {
		return ""
	}
	return token
}

func (s *redisStore) SetToken(token string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Set(ctx, s.tokenKey(), token, s.ttl).Err()
}

func (s *redisStore) Clear() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Del(ctx, s.tokenKey(), s.userKey()).Err()
}

func (s *redisStore) UserData() *domain.UserProfile {
	ctx, cancel := s.ctx()
	defer cancel()
	data, err := s.client.Get(ctx, s.userKey()).Bytes()
	if err != nil {
		return nil
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil
	}
	return &profile
}

func (s *redisStore) SetUserData(profile *domain.UserProfile) error {
	ctx, cancel := s.ctx()
	defer cancel()
	if profile == nil {
		return s.client.Del(ctx, s.userKey()).Err()
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.userKey(), data, s.ttl).Err()
}

func (s *redisStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Close releases the underlying Redis connection pool.
func (s *redisStore) Close() error {
	return s.client.Close()
}
