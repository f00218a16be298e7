package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	nextID  int
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%03d", r.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTicketRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.CompanyID == companyID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *memTicketRepo) seed(ticket domain.Ticket) domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		r.nextID++
		ticket.ID = fmt.Sprintf("ticket-%03d", r.nextID)
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	r.tickets[ticket.ID] = ticket
	return ticket
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
	nextID   int
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{}
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = fmt.Sprintf("comment-%03d", r.nextID)
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *memCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistoryEntry
	nextID  int
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{}
}

func (r *memHistoryRepo) Create(_ context.Context, entry *domain.TicketHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = fmt.Sprintf("history-%03d", r.nextID)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketHistoryEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type memCompanyRepo struct {
	companies map[string]domain.Company
}

func newMemCompanyRepo(companies ...domain.Company) *memCompanyRepo {
	repo := &memCompanyRepo{companies: map[string]domain.Company{}}
	for _, company := range companies {
		repo.companies[company.ID] = company
	}
	return repo
}

func (r *memCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &company, nil
}

type memShareRepo struct {
	mu    sync.Mutex
	links map[string]domain.ShareLink

	// failTakenOnce makes the next Save report a collision, to exercise
	// token regeneration.
	failTakenOnce bool
	saveCalls     int
}

func newMemShareRepo() *memShareRepo {
	return &memShareRepo{links: map[string]domain.ShareLink{}}
}

func (r *memShareRepo) Save(_ context.Context, link *domain.ShareLink, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.failTakenOnce {
		r.failTakenOnce = false
		return repository.ErrTokenTaken
	}
	if _, exists := r.links[link.Token]; exists {
		return repository.ErrTokenTaken
	}
	r.links[link.Token] = *link
	return nil
}

func (r *memShareRepo) Get(_ context.Context, token string) (*domain.ShareLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[token]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

func (r *memShareRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, token)
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	sent     []NotificationPayload
	failWith error
}

func (s *fakeSender) Send(_ context.Context, payload NotificationPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, payload)
	return nil
}

var errSendFailed = errors.New("send failed")
