package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/charging-platform/oicp-roaming/internal/config"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// DefaultPrefix 快照键前缀，完整键为 <prefix><operator id>
const DefaultPrefix = "oicp:status:"

// RedisSnapshotStore 使用 Redis hash 保存快照，field 为 EVSE 编号，value 为 JSON 记录
type RedisSnapshotStore struct {
	Client *redis.Client
	Prefix string
	// TTL 大于 0 时为快照键设置过期时间
	TTL time.Duration
}

// NewRedisSnapshotStore 创建 Redis 快照存储并检查连接
func NewRedisSnapshotStore(cfg config.RedisConfig) (*RedisSnapshotStore, error) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisSnapshotStore{Client: client, Prefix: prefix, TTL: cfg.SnapshotTTL}, nil
}

func (r *RedisSnapshotStore) key(operatorID emobility.OperatorID) string {
	return r.Prefix + string(operatorID)
}

// Load 读取快照，按 EVSE 编号排序返回
func (r *RedisSnapshotStore) Load(ctx context.Context, operatorID emobility.OperatorID) ([]emobility.StatusRecord, error) {
	fields, err := r.Client.HGetAll(ctx, r.key(operatorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", operatorID, err)
	}

	records := make([]emobility.StatusRecord, 0, len(fields))
	for id, raw := range fields {
		var rec emobility.StatusRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode snapshot record %s: %w", id, err)
		}
		records = append(records, rec)
	}
	sortByID(records)
	return records, nil
}

// Save 在一个事务中删除旧快照并写入新快照
func (r *RedisSnapshotStore) Save(ctx context.Context, operatorID emobility.OperatorID, records []emobility.StatusRecord) error {
	snapshot := append([]emobility.StatusRecord(nil), records...)
	sortByID(snapshot)

	values := make([]interface{}, 0, 2*len(snapshot))
	for _, rec := range snapshot {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode snapshot record %s: %w", rec.ID, err)
		}
		values = append(values, string(rec.ID), string(b))
	}

	key := r.key(operatorID)
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values...)
			if r.TTL > 0 {
				pipe.Expire(ctx, key, r.TTL)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", operatorID, err)
	}
	return nil
}

// Close 关闭与存储后端的连接
func (r *RedisSnapshotStore) Close() error {
	return r.Client.Close()
}
