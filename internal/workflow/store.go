package workflow

import (
	"context"
	"sync"
	"time"

	"lowvie/internal/accountlink"
	"lowvie/internal/upload"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Page bundles the shell with the widgets rendered on it.
type Page struct {
	ID        string
	Shell     *Shell
	Upload    *upload.Widget
	Link      *accountlink.Widget
	CreatedAt time.Time
}

// PageFactory builds the components of a new page.
type PageFactory func(id string) *Page

// Store keeps live pages in memory. Nothing survives a restart.
type Store struct {
	mu      sync.RWMutex
	pages   map[string]*Page
	ttl     time.Duration
	factory PageFactory
	now     func() time.Time
	logger  *zap.Logger
}

func NewStore(ttl time.Duration, factory PageFactory, logger *zap.Logger) *Store {
	return &Store{
		pages:   make(map[string]*Page),
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
		logger:  logger,
	}
}

// Create mints a page with a fresh id.
func (s *Store) Create() *Page {
	id := uuid.NewString()
	page := s.factory(id)
	page.ID = id
	page.CreatedAt = s.now()

	s.mu.Lock()
	s.pages[id] = page
	s.mu.Unlock()

	s.logger.Info("Page created", zap.String("page_id", id))
	return page
}

func (s *Store) Get(id string) (*Page, bool) {
	s.mu.RLock()
	page, ok := s.pages[id]
	s.mu.RUnlock()
	if !ok || s.expired(page, s.now()) {
		return nil, false
	}
	return page, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Sweep drops pages older than the TTL and cancels their uploads.
func (s *Store) Sweep(now time.Time) int {
	var evicted []*Page

	s.mu.Lock()
	for id, page := range s.pages {
		if s.expired(page, now) {
			evicted = append(evicted, page)
			delete(s.pages, id)
		}
	}
	s.mu.Unlock()

	for _, page := range evicted {
		page.Shell.Close()
	}
	if len(evicted) > 0 {
		s.logger.Info("Evicted expired pages", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// Run sweeps on every tick until ctx is done, then closes all pages.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

func (s *Store) closeAll() {
	s.mu.Lock()
	pages := s.pages
	s.pages = make(map[string]*Page)
	s.mu.Unlock()

	for _, page := range pages {
		page.Shell.Close()
	}
}

func (s *Store) expired(page *Page, now time.Time) bool {
	return s.ttl > 0 && now.Sub(page.CreatedAt) > s.ttl
}
