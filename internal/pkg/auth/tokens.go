package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/taskdeck-io/taskdeck/internal/config"
)

const (
	TypAccess  = "access"
	TypRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by both halves of a token pair. SID is shared by the pair
// and is the revocation unit: revoking it kills the refresh token and every
// access token minted alongside it, deterministically.
type Claims struct {
	jwt.RegisteredClaims
	SID string `json:"sid"`
	Typ string `json:"typ"`
}

// AccountID returns the account the token was minted for.
func (c *Claims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RevocationStore records revoked session ids until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, sid string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sid string) (bool, error)
}

type redisRevocations struct{ rdb *redis.Client }

func NewRedisRevocations(rdb *redis.Client) RevocationStore {
	return &redisRevocations{rdb: rdb}
}

func (r *redisRevocations) Revoke(ctx context.Context, sid string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.rdb.Set(ctx, "revoked_sid:"+sid, "1", ttl).Err()
}

func (r *redisRevocations) IsRevoked(ctx context.Context, sid string) (bool, error) {
	n, err := r.rdb.Exists(ctx, "revoked_sid:"+sid).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type TokenService struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	revocations RevocationStore
}

func NewTokenService(cfg *config.Config, revocations RevocationStore) *TokenService {
	return &TokenService{
		secret:      []byte(cfg.Auth.JWTSecret),
		accessTTL:   time.Duration(cfg.Auth.AccessTTLSec) * time.Second,
		refreshTTL:  time.Duration(cfg.Auth.RefreshTTLSec) * time.Second,
		revocations: revocations,
	}
}

// IssuePair mints a fresh access+refresh pair for an account.
func (s *TokenService) IssuePair(accountID uuid.UUID) (*TokenPair, error) {
	sid := uuid.NewString()
	access, err := s.sign(accountID, sid, TypAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(accountID, sid, TypRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) sign(accountID uuid.UUID, sid, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID: sid,
		Typ: typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses the token, checks its signature, expiry, type, and whether
// its session has been revoked.
func (s *TokenService) Verify(ctx context.Context, raw, wantTyp string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Typ != wantTyp || claims.SID == "" {
		return nil, ErrInvalidToken
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.SID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh rotates a pair: the old session is revoked for its remaining
// lifetime and a new pair is issued.
func (s *TokenService) Refresh(ctx context.Context, refreshRaw string) (*TokenPair, error) {
	claims, err := s.Verify(ctx, refreshRaw, TypRefresh)
	if err != nil {
		return nil, err
	}
	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.revocations.Revoke(ctx, claims.SID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, err
	}
	return s.IssuePair(accountID)
}

// Revoke blacklists the session of a refresh token (logout).
func (s *TokenService) Revoke(ctx context.Context, refreshRaw string) error {
	claims, err := s.Verify(ctx, refreshRaw, TypRefresh)
	if err != nil {
		return err
	}
	return s.revocations.Revoke(ctx, claims.SID, time.Until(claims.ExpiresAt.Time))
}
