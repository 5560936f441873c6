// Package session holds the role-tagged login state behind an explicit store
// abstraction keyed by an opaque cookie token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RoleAdmin   = "admin"
	RoleWarden  = "warden"
	RoleStudent = "student"
)

// Session is the small object written on successful login. Only the fields
// for the tagged role are populated.
type Session struct {
	Role string `json:"role"`
	Name string `json:"name"`

	AID   int    `json:"aid,omitempty"`
	Email string `json:"email,omitempty"`

	WID   int    `json:"wid,omitempty"`
	Phone string `json:"phone,omitempty"`
	HID   int    `json:"hid,omitempty"`

	SID  int    `json:"sid,omitempty"`
	SHID string `json:"shid,omitempty"`
}

// Store is the process-external session state. Get returns (nil, nil) for an
// unknown or expired token; entries expire after the store's TTL.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Set(ctx context.Context, token string, sess *Session) error
	Clear(ctx context.Context, token string) error
}

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis as JSON values with a TTL, so logins
// survive restarts and are shared across replicas.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.Client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, keyPrefix+token, raw, s.TTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	return s.Client.Del(ctx, keyPrefix+token).Err()
}
