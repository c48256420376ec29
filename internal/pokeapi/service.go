package pokeapi

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// DefaultPageSize is the number of summaries requested per list page.
const DefaultPageSize = 20

// Service is the memoizing data-access layer. Construct one per process
// and share it; it is safe for concurrent use.
//
// A populated entry is returned verbatim (same pointer) on every later
// lookup until the matching Invalidate call. Failures are never cached.
type Service struct {
	client   *Client
	pageSize int
	logger   *slog.Logger

	lists    Store[string, *ListPage]
	entities Store[string, *Entity]

	// Concurrent misses on the same key share one request.
	group singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	requests atomic.Int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPageSize sets the page size used for the default first-page URL.
func WithPageSize(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithListStore replaces the list cache storage.
func WithListStore(st Store[string, *ListPage]) ServiceOption {
	return func(s *Service) {
		s.lists = st
	}
}

// WithEntityStore replaces the entity cache storage.
func WithEntityStore(st Store[string, *Entity]) ServiceOption {
	return func(s *Service) {
		s.entities = st
	}
}

// WithServiceLogger sets the logger for cache tracing.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wraps client with unbounded list and entity caches.
func NewService(client *Client, opts ...ServiceOption) *Service {
	s := &Service{
		client:   client,
		pageSize: DefaultPageSize,
		logger:   slog.Default(),
		lists:    NewMapStore[string, *ListPage](),
		entities: NewMapStore[string, *Entity](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageSize returns the configured page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// FirstPageURL returns the URL FetchList uses when called with "".
func (s *Service) FirstPageURL() string {
	return s.client.ListURL(0, s.pageSize)
}

// FetchList returns the list page at pageURL, or the first page when
// pageURL is empty. The cache is keyed by the exact URL string.
func (s *Service) FetchList(ctx context.Context, pageURL string) (*ListPage, error) {
	if pageURL == "" {
		pageURL = s.FirstPageURL()
	}
	if p, ok := s.lists.Get(pageURL); ok {
		s.hit("list", pageURL)
		return p, nil
	}

	v, err := s.shared(ctx, "list:"+pageURL, func(ctx context.Context) (any, error) {
		if p, ok := s.lists.Get(pageURL); ok {
			return p, nil
		}
		s.miss("list", pageURL)
		p, err := s.client.GetList(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		s.lists.Set(pageURL, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ListPage), nil
}

// FetchEntity returns the record for idOrName. Lookups are
// case-insensitive: "Pikachu" and "pikachu" share one cache entry.
func (s *Service) FetchEntity(ctx context.Context, idOrName string) (*Entity, error) {
	key := NormalizeKey(idOrName)
	if key == "" {
		return nil, ErrEmptyKey
	}
	if e, ok := s.entities.Get(key); ok {
		s.hit("entity", key)
		return e, nil
	}

	v, err := s.shared(ctx, "entity:"+key, func(ctx context.Context) (any, error) {
		if e, ok := s.entities.Get(key); ok {
			return e, nil
		}
		s.miss("entity", key)
		e, err := s.client.GetEntity(ctx, s.client.EntityURL(key))
		if err != nil {
			return nil, err
		}
		s.entities.Set(key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entity), nil
}

// shared runs fn once per key across concurrent callers. The request runs
// detached from any one caller's cancellation; each caller stops waiting
// when its own ctx is done. The HTTP client timeout still bounds it.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FetchEntityByID is FetchEntity for a numeric id.
func (s *Service) FetchEntityByID(ctx context.Context, id int) (*Entity, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.FetchEntity(ctx, strconv.Itoa(id))
}

// CachedEntity returns the cached record for idOrName without fetching.
func (s *Service) CachedEntity(idOrName string) (*Entity, bool) {
	return s.entities.Get(NormalizeKey(idOrName))
}

// InvalidateListCache drops every cached list page.
func (s *Service) InvalidateListCache() {
	s.lists.Clear()
}

// InvalidateEntityCache drops every cached entity record.
func (s *Service) InvalidateEntityCache() {
	s.entities.Clear()
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits     int64
	Misses   int64
	Requests int64
	Lists    int
	Entities int
}

// Stats returns the current counters.
func (s *Service) Stats() Stats {
	return Stats{
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
		Requests: s.requests.Load(),
		Lists:    s.lists.Len(),
		Entities: s.entities.Len(),
	}
}

func (s *Service) hit(kind, key string) {
	s.hits.Add(1)
	s.logger.Debug("cache hit", slog.String("kind", kind), slog.String("key", key))
}

func (s *Service) miss(kind, key string) {
	s.misses.Add(1)
	s.requests.Add(1)
	s.logger.Debug("cache miss", slog.String("kind", kind), slog.String("key", key))
}

// NormalizeKey lower-cases and trims an id or name.
func NormalizeKey(idOrName string) string {
	return strings.ToLower(strings.TrimSpace(idOrName))
}
