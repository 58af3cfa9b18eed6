package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedTokenPrefix = "speed:revoked:"
	revokedUserPrefix  = "speed:revoked-user:"
)

// SessionRepository tracks bearer tokens revoked before their expiry, either
// one token at a time or every token of a user issued before a cutoff.
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	RevokeUser(ctx context.Context, userID uint, cutoff time.Time, ttl time.Duration) error
	UserCutoff(ctx context.Context, userID uint) (time.Time, error)
}

type sessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) SessionRepository {
	return &sessionRepository{rdb: rdb}
}

// Revoke keeps the token id only as long as the token itself would live.
func (r *sessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

func (r *sessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.rdb.Get(ctx, revokedTokenPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func userKey(userID uint) string {
	return revokedUserPrefix + strconv.FormatUint(uint64(userID), 10)
}

// RevokeUser invalidates every token of userID issued before cutoff. The
// marker outlives the longest token by ttl.
func (r *sessionRepository) RevokeUser(ctx context.Context, userID uint, cutoff time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, userKey(userID), cutoff.Unix(), ttl).Err()
}

// UserCutoff returns the zero time when no revocation is recorded.
func (r *sessionRepository) UserCutoff(ctx context.Context, userID uint) (time.Time, error) {
	unix, err := r.rdb.Get(ctx, userKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(unix, 0), nil
}
