package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// ErrTokenTaken is returned when a share token already exists; the caller
// regenerates and retries rather than overwriting.
var ErrTokenTaken = errors.New("share token already exists")

const shareKeyPrefix = "share:"

// ShareLinkRepository stores share links keyed by token. Keys carry a TTL
// aligned with the link's expiry, so expired links vanish from the store.
type ShareLinkRepository interface {
	// Save persists the link if the token is unused, returning ErrTokenTaken
	// on collision. ttl bounds the key's lifetime.
	Save(ctx context.Context, link *domain.ShareLink, ttl time.Duration) error
	// Get returns the link, or nil when the token is unknown or expired.
	Get(ctx context.Context, token string) (*domain.ShareLink, error)
	Delete(ctx context.Context, token string) error
}

type shareLinkRecord struct {
	TicketID     string    `json:"ticket_id"`
	CompanyID    string    `json:"company_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	PasswordHash string    `json:"password_hash,omitempty"`
	IssuedBy     string    `json:"issued_by"`
	IssuedAt     time.Time `json:"issued_at"`
}

type shareLinkRepository struct {
	client *redis.Client
}

// NewShareLinkRepository builds repository.
func NewShareLinkRepository(client *redis.Client) ShareLinkRepository {
	return &shareLinkRepository{client: client}
}

func (r *shareLinkRepository) Save(ctx context.Context, link *domain.ShareLink, ttl time.Duration) error {
	record := shareLinkRecord{
		TicketID:     link.TicketID,
		CompanyID:    link.CompanyID,
		ExpiresAt:    link.ExpiresAt,
		PasswordHash: link.PasswordHash,
		IssuedBy:     link.IssuedBy,
		IssuedAt:     link.IssuedAt,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, shareKeyPrefix+link.Token, payload, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenTaken
	}
	return nil
}

func (r *shareLinkRepository) Get(ctx context.Context, token string) (*domain.ShareLink, error) {
	payload, err := r.client.Get(ctx, shareKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record shareLinkRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &domain.ShareLink{
		Token:        token,
		TicketID:     record.TicketID,
		CompanyID:    record.CompanyID,
		ExpiresAt:    record.ExpiresAt,
		PasswordHash: record.PasswordHash,
		IssuedBy:     record.IssuedBy,
		IssuedAt:     record.IssuedAt,
	}, nil
}

func (r *shareLinkRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, shareKeyPrefix+token).Err()
}
