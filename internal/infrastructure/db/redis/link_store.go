package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

// LinkStore holds one-time passwordless sign-in tokens in Redis.
// Key format: link:<token>
type LinkStore struct {
	client *redis.Client
}

// NewLinkStore creates a LinkStore wrapping the given Redis client.
func NewLinkStore(client *redis.Client) *LinkStore {
	return &LinkStore{client: client}
}

// PasswordlessLink is the payload bound to an issued link token.
type PasswordlessLink struct {
	Email     string `json:"email"`
	ReturnURL string `json:"return_url,omitempty"`
}

// Save stores the link payload under token for the given ttl.
func (l *LinkStore) Save(ctx context.Context, token string, link PasswordlessLink, ttl time.Duration) error {
	payload, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	if err := l.client.Set(ctx, l.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	return nil
}

// Consume atomically retrieves and deletes the link for token, guaranteeing
// single use. Expired, unknown, and already-used tokens are indistinguishable.
func (l *LinkStore) Consume(ctx context.Context, token string) (*PasswordlessLink, error) {
	payload, err := l.client.GetDel(ctx, l.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("consume link: %w", err)
	}
	var link PasswordlessLink
	if err := json.Unmarshal(payload, &link); err != nil {
		return nil, fmt.Errorf("consume link: %w", err)
	}
	return &link, nil
}

func (l *LinkStore) key(token string) string {
	return "link:" + token
}
