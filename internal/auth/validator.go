// Package auth validates bearer tokens against the identity provider, caching
// verified claims in Redis, and resolves claims to local user records.
package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sebbyk/airwaves/internal/cache"
	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/metrics"
)

// UserInfoProvider is the slice of the identity provider client the validator
// needs. Tests substitute a fake.
type UserInfoProvider interface {
	UserInfo(ctx context.Context, token string) (*idp.Claims, error)
}

// Validator exchanges bearer tokens for verified claims, memoising successful
// lookups in Redis under a digest of the token for a fixed TTL. Apart from
// explicit revocation via Forget, a token revoked upstream stays accepted
// until its cache entry expires.
type Validator struct {
	provider UserInfoProvider
	cache    *cache.Redis // nil disables caching
	ttl      time.Duration
	log      zerolog.Logger
}

// NewValidator creates a Validator. c may be nil, in which case every
// validation calls the provider.
func NewValidator(provider UserInfoProvider, c *cache.Redis, ttl time.Duration, log zerolog.Logger) *Validator {
	return &Validator{provider: provider, cache: c, ttl: ttl, log: log}
}

// tokenKey derives the cache key from a one-way digest so the raw token is
// never stored or logged.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("token:%x", sum)
}

// Validate returns verified claims for the token, from cache when possible.
// Invalid tokens return idp.ErrInvalidToken.
func (v *Validator) Validate(ctx context.Context, token string) (*idp.Claims, error) {
	if token == "" {
		return nil, idp.ErrInvalidToken
	}

	var key string
	if v.cache != nil {
		key = tokenKey(token)
		if claims, err := cache.Get[idp.Claims](ctx, v.cache, key); err == nil {
			metrics.TokenCacheHits.Inc()
			return &claims, nil
		} else if !errors.Is(err, redis.Nil) {
			v.log.Warn().Err(err).Msg("token cache read failed")
		}
	}
	metrics.TokenCacheMisses.Inc()

	claims, err := v.provider.UserInfo(ctx, token)
	if err != nil {
		// Upstream failures surface as authentication failures without detail.
		if !errors.Is(err, idp.ErrInvalidToken) {
			v.log.Warn().Err(err).Msg("userinfo call failed")
			return nil, idp.ErrInvalidToken
		}
		return nil, err
	}

	if v.cache != nil {
		if err := cache.Set(ctx, v.cache, key, claims, v.ttl); err != nil {
			v.log.Warn().Err(err).Msg("token cache write failed")
		}
	}
	return claims, nil
}

// Forget drops any cached claims for the token, so a freshly revoked token is
// re-checked upstream instead of riding out its TTL.
func (v *Validator) Forget(ctx context.Context, token string) {
	if v.cache == nil {
		return
	}
	if err := cache.Del(ctx, v.cache, tokenKey(token)); err != nil {
		v.log.Warn().Err(err).Msg("token cache delete failed")
	}
}
