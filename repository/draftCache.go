package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"booking-service/data"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	cacheDraft = "draft:%s"
	draftTTL   = 24 * time.Hour
)

// DraftCache persists in-progress drafts in Redis between page loads.
// Drafts are opaque JSON; the only contract is round-trip fidelity of
// the draft shape, date fields included.
type DraftCache struct {
	cli    *redis.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewDraftCache(logger *logrus.Logger, tracer trace.Tracer) *DraftCache {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisAddress := fmt.Sprintf("%s:%s", redisHost, redisPort)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &DraftCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}
}

func (dc *DraftCache) Ping() {
	val, _ := dc.cli.Ping().Result()
	dc.logger.WithFields(logrus.Fields{"path": "repository/draftcache"}).Info(val)
}

func (dc *DraftCache) Save(ctx context.Context, draft *data.BookingDraft) error {
	_, span := dc.tracer.Start(ctx, "DraftCache.Save")
	defer span.End()

	payload, err := json.Marshal(draft)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	key := fmt.Sprintf(cacheDraft, draft.SessionID)
	err = dc.cli.Set(key, payload, draftTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		dc.logger.WithFields(logrus.Fields{"path": "repository/draftcache"}).Error(err)
		return err
	}
	return nil
}

func (dc *DraftCache) Load(ctx context.Context, sessionID string) (*data.BookingDraft, error) {
	_, span := dc.tracer.Start(ctx, "DraftCache.Load")
	defer span.End()

	key := fmt.Sprintf(cacheDraft, sessionID)
	payload, err := dc.cli.Get(key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("draft session %q not found", sessionID)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var draft data.BookingDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &draft, nil
}

func (dc *DraftCache) Delete(ctx context.Context, sessionID string) error {
	_, span := dc.tracer.Start(ctx, "DraftCache.Delete")
	defer span.End()

	key := fmt.Sprintf(cacheDraft, sessionID)
	if err := dc.cli.Del(key).Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
