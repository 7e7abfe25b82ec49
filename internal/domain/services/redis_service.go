package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the cache service interface. Every method is
// best-effort: a cache outage degrades to database reads, never to failures.
type InterfaceRedisService interface {
	CacheActiveToken(token *models.TokenSirene)
	GetCachedActiveToken(abonnementID string) *models.TokenSirene
	InvalidateActiveToken(abonnementID string)
	Ping() error
	Close() error
}

// RedisService caches hot lookups, primarily the active token of a
// subscription so device scans skip the database.
type RedisService struct {
	Client *redis.Client
	Config *config.Config
}

// NewRedisService creates a new cache service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisService{Client: client, Config: cfg}
}

func activeTokenKey(abonnementID string) string {
	return fmt.Sprintf("token:actif:%s", abonnementID)
}

// 1. CacheActiveToken stores the active token of a subscription until the
// token expires
func (s *RedisService) CacheActiveToken(token *models.TokenSirene) {
	if token == nil {
		return
	}
	ttl := time.Until(token.DateExpiration)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(token)
	if err != nil {
		logger.Warning("token %s cache marshal failed: %v", token.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Client.Set(ctx, activeTokenKey(token.AbonnementID), raw, ttl).Err(); err != nil {
		logger.Warning("token %s not cached: %v", token.ID, err)
	}
}

// 2. GetCachedActiveToken returns the cached active token, nil on any miss
func (s *RedisService) GetCachedActiveToken(abonnementID string) *models.TokenSirene {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	raw, err := s.Client.Get(ctx, activeTokenKey(abonnementID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warning("cache read for abonnement %s failed: %v", abonnementID, err)
		}
		return nil
	}
	var token models.TokenSirene
	if err := json.Unmarshal(raw, &token); err != nil {
		logger.Warning("cached token for abonnement %s unreadable: %v", abonnementID, err)
		return nil
	}
	return &token
}

// 3. InvalidateActiveToken drops the cached token of a subscription
func (s *RedisService) InvalidateActiveToken(abonnementID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Client.Del(ctx, activeTokenKey(abonnementID)).Err(); err != nil {
		logger.Warning("cache invalidation for abonnement %s failed: %v", abonnementID, err)
	}
}

// 4. Ping checks connectivity
func (s *RedisService) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx).Err()
}

// 5. Close releases the client
func (s *RedisService) Close() error {
	return s.Client.Close()
}
