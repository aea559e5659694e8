package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/humanloop/interrupt"
)

// RedisConfig Redis 会话存储配置。
type RedisConfig struct {
	// Redis 地址
	Addr string `yaml:"addr" json:"addr"`

	// 密码
	Password string `yaml:"password" json:"password"`

	// 数据库编号
	DB int `yaml:"db" json:"db"`

	// 键前缀
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`

	// 快照过期时间。中断不会比它所属的运行活得更久，
	// 过期即视为垃圾回收。
	TTL time.Duration `yaml:"ttl" json:"ttl"`

	// 连接池大小
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// DefaultRedisConfig 返回默认 Redis 配置。
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "humanloop:",
		TTL:       24 * time.Hour,
		PoolSize:  10,
	}
}

// RedisStore 是基于 Redis 的会话存储，适用于多实例部署：
// 任一前端实例都能接管进行中的决策。
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisStore 连接 Redis 并创建会话存储。
func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.KeyPrefix, cfg.TTL, logger), nil
}

// NewRedisStoreWithClient 复用已建立的客户端创建会话存储。
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keyPrefix == "" {
		keyPrefix = "humanloop:"
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix + "session:",
		ttl:       ttl,
		logger:    logger.With(zap.String("component", "redis_session_store")),
	}
}

// Close 关闭底层 Redis 连接。
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping 检查存储是否健康。
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) sessionKey(id string) string {
	return s.keyPrefix + "data:" + id
}

func (s *RedisStore) indexKey() string {
	return s.keyPrefix + "index"
}

func (s *RedisStore) Save(ctx context.Context, snap *interrupt.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(snap.ID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), snap.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*interrupt.Snapshot, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap interrupt.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// List 返回所有未过期的会话快照，顺带清理索引中已过期的条目。
func (s *RedisStore) List(ctx context.Context) ([]*interrupt.Snapshot, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list index: %w", err)
	}

	var results []*interrupt.Snapshot
	for _, id := range ids {
		snap, err := s.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Expired snapshot still referenced by the index.
			if err := s.client.SRem(ctx, s.indexKey(), id).Err(); err != nil {
				s.logger.Warn("failed to prune expired session from index",
					zap.String("id", id), zap.Error(err))
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, snap)
	}
	return results, nil
}
