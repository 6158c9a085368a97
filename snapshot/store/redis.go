package store

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/codec"
	"github.com/tesseraworks/tessera/snapshot"
)

const redisKeyPrefix = "tessera:snapshot:"

// RedisStore persists snapshot records in Redis, one key per record.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *RedisStore) Save(ctx context.Context, rec *snapshot.Record) error {
	bz, err := codec.Encode(rec)
	if err != nil {
		return err
	}
	return eris.Wrap(s.client.Set(ctx, redisKeyPrefix+rec.ID, bz, 0).Err(), "")
}

func (s *RedisStore) Load(ctx context.Context, id string) (*snapshot.Record, error) {
	bz, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if eris.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, eris.Wrap(err, "")
	}
	rec, err := codec.Decode[snapshot.Record](bz)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, eris.Wrap(err, "")
	}
	return ids, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return eris.Wrap(err, "")
	}
	if deleted == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error {
	return eris.Wrap(s.client.Close(), "")
}
