package cache

import (
	"context"
	"log/slog"
	"time"

	"tutorhive/internal/pkg/config"
	"tutorhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when no Redis address is configured; the
// directory decorator treats a nil client as cache-off.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, func()) {
	if cfg.Addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err.Error())
		}
	}
	return client, cleanup
}

// CachedTutorDirectory caches external-uid to tutor-id resolutions. The
// mapping is effectively immutable (external uids are never reassigned),
// so a short TTL is only a hedge against account deactivation.
type CachedTutorDirectory struct {
	client *redis.Client
	next   queries.TutorDirectory
	ttl    time.Duration
}

func NewCachedTutorDirectory(client *redis.Client, next queries.TutorDirectory, cfg config.RedisConfig) queries.TutorDirectory {
	return &CachedTutorDirectory{
		client: client,
		next:   next,
		ttl:    cfg.TutorTTL,
	}
}

func (d *CachedTutorDirectory) TutorIDByExternalUID(ctx context.Context, externalUID string) (uuid.UUID, error) {
	if d.client == nil {
		return d.next.TutorIDByExternalUID(ctx, externalUID)
	}

	key := "tutor:uid:" + externalUID
	if cached, err := d.client.Get(ctx, key).Result(); err == nil {
		if id, parseErr := uuid.Parse(cached); parseErr == nil {
			return id, nil
		}
		// Unparseable entry: drop it and fall through to the database.
		d.client.Del(ctx, key)
	} else if err != redis.Nil {
		slog.Warn("tutor cache read failed", "error", err.Error())
	}

	id, err := d.next.TutorIDByExternalUID(ctx, externalUID)
	if err != nil {
		return uuid.Nil, err
	}

	if err := d.client.Set(ctx, key, id.String(), d.ttl).Err(); err != nil {
		slog.Warn("tutor cache write failed", "error", err.Error())
	}
	return id, nil
}
