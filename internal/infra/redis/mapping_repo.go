package redis

import (
	"context"
	"fmt"
	"time"

	"qr-payment-service/internal/domain/ports/repository"
)

var _ repository.MappingRepository = (*MappingRepo)(nil)

// MappingRepo stores operation->callback mappings in Redis with a TTL,
// so mappings survive restarts and expire without a janitor.
type MappingRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewMappingRepo(client RedisClient, ttl time.Duration) *MappingRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MappingRepo{client: client, ttl: ttl}
}

func (s *MappingRepo) key(operationID string) string {
	return fmt.Sprintf("mapping:%s", operationID)
}

func (s *MappingRepo) Record(ctx context.Context, operationID, callbackID string) error {
	return s.client.Set(ctx, s.key(operationID), callbackID, s.ttl)
}

func (s *MappingRepo) Lookup(ctx context.Context, operationID string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(operationID))
	if err != nil {
		if IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}
