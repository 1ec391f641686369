package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/processed"
)

// claimTTL bounds how long an in-flight claim survives a crashed
// worker before the identifier becomes claimable again.
const claimTTL = 10 * time.Minute

// claimScript makes the completed/in-flight check and the claim a
// single critical section on the Redis side.
var claimScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then return 0 end
if redis.call('EXISTS', KEYS[2]) == 1 then return 0 end
redis.call('SET', KEYS[2], 'claimed', 'EX', ARGV[1])
return 1
`)

// ProcessedSet implements processed.Set on Redis so multiple gate
// instances share one exactly-once tracker.
type ProcessedSet struct {
	rdb *redis.Client
}

// NewProcessedSet creates a Redis-backed processed set.
func NewProcessedSet(client *Client) *ProcessedSet {
	return &ProcessedSet{rdb: client.rdb}
}

func completedKey(id string) string {
	return fmt.Sprintf("fhirgate:completed:%s", id)
}

func inflightKey(id string) string {
	return fmt.Sprintf("fhirgate:inflight:%s", id)
}

// Claim atomically transitions an unseen identifier to in-flight.
func (s *ProcessedSet) Claim(ctx context.Context, id string) (bool, error) {
	keys := []string{completedKey(id), inflightKey(id)}
	res, err := claimScript.Run(ctx, s.rdb, keys, int(claimTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("claim script failed: %w", err)
	}
	return res == 1, nil
}

// Complete marks a claimed identifier terminal with its destination.
func (s *ProcessedSet) Complete(ctx context.Context, id string, dest domain.Destination) error {
	exists, err := s.rdb.Exists(ctx, inflightKey(id)).Result()
	if err != nil {
		return fmt.Errorf("exists failed: %w", err)
	}
	if exists == 0 {
		return processed.ErrNotClaimed
	}
	if err := s.rdb.Set(ctx, completedKey(id), string(dest), 0).Err(); err != nil {
		return fmt.Errorf("set completed failed: %w", err)
	}
	if err := s.rdb.Del(ctx, inflightKey(id)).Err(); err != nil {
		return fmt.Errorf("del inflight failed: %w", err)
	}
	return nil
}

// Release returns a claimed identifier to unseen.
func (s *ProcessedSet) Release(ctx context.Context, id string) error {
	deleted, err := s.rdb.Del(ctx, inflightKey(id)).Result()
	if err != nil {
		return fmt.Errorf("del inflight failed: %w", err)
	}
	if deleted == 0 {
		return processed.ErrNotClaimed
	}
	return nil
}

// Get reports the current state of an identifier.
func (s *ProcessedSet) Get(ctx context.Context, id string) (domain.ProcessedState, domain.Destination, error) {
	dest, err := s.rdb.Get(ctx, completedKey(id)).Result()
	if err == nil {
		return domain.StateCompleted, domain.Destination(dest), nil
	}
	if err != redis.Nil {
		return "", "", fmt.Errorf("get completed failed: %w", err)
	}

	exists, err := s.rdb.Exists(ctx, inflightKey(id)).Result()
	if err != nil {
		return "", "", fmt.Errorf("exists failed: %w", err)
	}
	if exists == 1 {
		return domain.StateInFlight, "", nil
	}
	return domain.StateUnseen, "", nil
}

// Forget drops all state for an identifier.
func (s *ProcessedSet) Forget(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, completedKey(id), inflightKey(id)).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}
