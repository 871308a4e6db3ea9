package redis

import (
	"context"
	"time"

	"github.com/dcastano/cafeteriapos/internal/auth/domain"
	"github.com/dcastano/cafeteriapos/pkg/cache"
)

const sessionKeyPrefix = "session:"

type sessionRepository struct{ cache *cache.RedisCache }

// NewSessionRepository 会话存在即令牌有效，TTL 与令牌有效期一致
func NewSessionRepository(cache *cache.RedisCache) domain.SessionRepository {
	return &sessionRepository{cache: cache}
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.cache.SetJSON(ctx, sessionKeyPrefix+session.ID, session, ttl)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	found, err := r.cache.GetJSON(ctx, sessionKeyPrefix+id, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, sessionKeyPrefix+id)
}
