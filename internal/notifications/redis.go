package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/redis/rueidis"
)

// RedisLog keeps notifications in a Redis list so several processes can share
// one log.
type RedisLog struct {
	client rueidis.Client
	key    string
	log    lgr.L
	now    func() time.Time
}

func NewRedisLog(client rueidis.Client, key string, log lgr.L) *RedisLog {
	return &RedisLog{
		client: client,
		key:    key,
		log:    log,
		now:    time.Now,
	}
}

func (r *RedisLog) Notify(ctx context.Context, message string) {
	cmd := r.client.B().Rpush().Key(r.key).Element(formatLine(r.now(), message)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		r.log.Logf("[WARN] could not push notification to redis key %s: %v", r.key, err)
	}
}

// Entries reads from offset to the end of the list. A list shorter than offset
// (it was trimmed or recreated) is read from the start.
func (r *RedisLog) Entries(ctx context.Context, offset int) ([]string, int, error) {
	size, err := r.client.Do(ctx, r.client.B().Llen().Key(r.key).Build()).AsInt64()
	if err != nil {
		return nil, offset, fmt.Errorf("could not read notifications length: %w", err)
	}
	if offset < 0 || int64(offset) > size {
		offset = 0
	}
	if int64(offset) == size {
		return nil, offset, nil
	}

	cmd := r.client.B().Lrange().Key(r.key).Start(int64(offset)).Stop(-1).Build()
	lines, err := r.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, offset, nil
		}
		return nil, offset, fmt.Errorf("could not read notifications: %w", err)
	}
	return lines, offset + len(lines), nil
}
