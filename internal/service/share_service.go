package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/config"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

const (
	shareTokenBytes   = 32
	shareSaveAttempts = 5
)

// ShareService issues, validates, and revokes share links: opaque,
// time-boxed, optionally password-protected read grants for one ticket.
type ShareService struct {
	links      repository.ShareLinkRepository
	tickets    repository.TicketRepository
	cfg        config.ShareConfig
	bcryptCost int
	now        func() time.Time
}

// ShareDependencies bundles collaborators for the share service.
type ShareDependencies struct {
	LinkRepo   repository.ShareLinkRepository
	TicketRepo repository.TicketRepository
}

// NewShareService constructs the service.
func NewShareService(deps ShareDependencies, cfg config.ShareConfig, bcryptCost int) *ShareService {
	return &ShareService{
		links:      deps.LinkRepo,
		tickets:    deps.TicketRepo,
		cfg:        cfg,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Issue creates a share link for the ticket. ttlDays outside the configured
// bounds fails with InvalidInput rather than clamping silently. A supplied
// password is stored only as a bcrypt hash. Token collisions are detected at
// the store and regenerated.
func (s *ShareService) Issue(ctx context.Context, actor domain.Actor, ticketID string, ttlDays int, password string) (*domain.ShareLink, error) {
	if !actor.Can(domain.CapIssueShareLink) {
		return nil, apperrors.NewAccessDenied()
	}
	if ttlDays < s.minTTLDays() || ttlDays > s.maxTTLDays() {
		return nil, apperrors.NewInvalidInput(
			fmt.Sprintf("ttl_days must be between %d and %d", s.minTTLDays(), s.maxTTLDays()), nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	if !actor.CanAccessCompany(ticket.CompanyID) {
		return nil, apperrors.NewAccessDenied()
	}

	passwordHash := ""
	if password != "" {
		passwordHash, err = auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
	}

	issuedAt := s.now()
	ttl := time.Duration(ttlDays) * 24 * time.Hour
	link := &domain.ShareLink{
		TicketID:     ticket.ID,
		CompanyID:    ticket.CompanyID,
		ExpiresAt:    issuedAt.Add(ttl),
		PasswordHash: passwordHash,
		IssuedBy:     actor.ID,
		IssuedAt:     issuedAt,
	}

	for attempt := 0; attempt < shareSaveAttempts; attempt++ {
		link.Token, err = generateShareToken()
		if err != nil {
			return nil, err
		}
		err = s.links.Save(ctx, link, ttl)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, repository.ErrTokenTaken) {
			return nil, err
		}
	}
	return nil, apperrors.NewInternalError(errors.New("share token space exhausted"))
}

// Validate resolves a token to its ticket id. Unknown and expired tokens are
// externally indistinguishable; the distinct Expired code exists for callers
// that log, not for response bodies.
func (s *ShareService) Validate(ctx context.Context, token, suppliedPassword string) (string, error) {
	link, err := s.ValidateLink(ctx, token, suppliedPassword)
	if err != nil {
		return "", err
	}
	return link.TicketID, nil
}

// ValidateLink is Validate returning the full link, for callers that need
// the company scope to build a synthetic viewing actor.
func (s *ShareService) ValidateLink(ctx context.Context, token, suppliedPassword string) (*domain.ShareLink, error) {
	if token == "" {
		return nil, apperrors.NewNotFound("share link")
	}
	link, err := s.links.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, apperrors.NewNotFound("share link")
	}
	if s.now().After(link.ExpiresAt) {
		return nil, apperrors.NewExpired()
	}
	if link.RequiresPassword() {
		if suppliedPassword == "" {
			return nil, apperrors.NewPasswordRequired()
		}
		if auth.ComparePassword(link.PasswordHash, suppliedPassword) != nil {
			return nil, apperrors.NewPasswordMismatch()
		}
	}
	return link, nil
}

// Revoke deletes a share link before its natural expiry. Only actors who
// could have issued a link for the ticket's company may revoke it; the
// denial does not reveal whether the token existed.
func (s *ShareService) Revoke(ctx context.Context, actor domain.Actor, token string) error {
	if !actor.Can(domain.CapIssueShareLink) {
		return apperrors.NewAccessDenied()
	}
	link, err := s.links.Get(ctx, token)
	if err != nil {
		return err
	}
	if link == nil {
		return apperrors.NewNotFound("share link")
	}
	if !actor.CanAccessCompany(link.CompanyID) {
		return apperrors.NewNotFound("share link")
	}
	return s.links.Delete(ctx, token)
}

// WithClock overrides the time source. Test hook.
func (s *ShareService) WithClock(now func() time.Time) *ShareService {
	s.now = now
	return s
}

func (s *ShareService) minTTLDays() int {
	if s.cfg.MinTTLDays > 0 {
		return s.cfg.MinTTLDays
	}
	return 1
}

func (s *ShareService) maxTTLDays() int {
	if s.cfg.MaxTTLDays > 0 {
		return s.cfg.MaxTTLDays
	}
	return 30
}

// generateShareToken returns a URL-safe token with 256 bits of entropy. The
// token encodes nothing about the ticket or issuer.
func generateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
