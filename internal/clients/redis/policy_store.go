package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
)

// PolicyStore holds the phantom policy value under a single key. The value
// is owned by whatever admin tooling writes it; this client only moves
// bytes.
type PolicyStore struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
}

func NewPolicyStore(log *logger.Logger) (*PolicyStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("REDIS_POLICY_KEY"))
	if key == "" {
		key = "reactions:phantom_policy"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &PolicyStore{
		log: log.With("service", "RedisPolicyStore"),
		rdb: rdb,
		key: key,
	}, nil
}

func (s *PolicyStore) Load(ctx context.Context) ([]byte, bool, error) {
	if s == nil || s.rdb == nil {
		return nil, false, fmt.Errorf("policy store not initialized")
	}
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (s *PolicyStore) Save(ctx context.Context, raw []byte) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("policy store not initialized")
	}
	return s.rdb.Set(ctx, s.key, raw, 0).Err()
}

func (s *PolicyStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
