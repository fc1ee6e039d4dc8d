package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
)

// DefaultCacheExpiry is how long a cached cost table is served without
// asking the remote store.
const DefaultCacheExpiry = time.Hour

var errRemoteNotConfigured = errors.New("remote cost store is not configured")

// CostStore keeps the product cost table in sync between the remote sheet,
// the local cache file and memory. A nil remote means no credentials were
// configured: loads serve the cache only and saves fail with ErrRemoteStore.
//
// Edits are only written once the table has been loaded from the cache or
// the remote store, so a degraded empty table never overwrites the sheet.
type CostStore struct {
	remote CostRepository
	cache  CostCache
	expiry time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	current *domain.CostMap
	loaded  bool
}

// NewCostStore creates a cost store. A non-positive expiry selects DefaultCacheExpiry.
func NewCostStore(remote CostRepository, cache CostCache, expiry time.Duration, logger *zap.Logger) *CostStore {
	if expiry <= 0 {
		expiry = DefaultCacheExpiry
	}
	return &CostStore{
		remote:  remote,
		cache:   cache,
		expiry:  expiry,
		now:     time.Now,
		logger:  logger,
		current: domain.NewCostMap(),
	}
}

// WithClock replaces the time source.
func (s *CostStore) WithClock(now func() time.Time) *CostStore {
	s.now = now
	return s
}

// Load returns the cached table while it is fresh and fetches the remote
// table otherwise. On remote failure it returns an empty map together with
// an error wrapping domain.ErrRemoteStore; the caller decides to degrade.
func (s *CostStore) Load(ctx context.Context) (*domain.CostMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.cache.Read(ctx)
	switch {
	case err != nil:
		s.logger.Debug("cost cache miss", zap.Error(err))
	case snapshot != nil && snapshot.FreshAt(s.now(), s.expiry):
		s.current = snapshot.Data.Clone()
		s.loaded = true
		s.logger.Debug("cost cache hit",
			zap.Int("products", s.current.Len()),
			zap.Time("cached_at", snapshot.Timestamp))
		return s.current.Clone(), nil
	default:
		s.logger.Debug("cost cache expired")
	}
	return s.fetch(ctx)
}

// Refresh bypasses the cache and fetches the remote table.
func (s *CostStore) Refresh(ctx context.Context) (*domain.CostMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetch(ctx)
}

func (s *CostStore) fetch(ctx context.Context) (*domain.CostMap, error) {
	if s.remote == nil {
		return domain.NewCostMap(), fmt.Errorf("%w: %v", domain.ErrRemoteStore, errRemoteNotConfigured)
	}
	costs, err := s.remote.FetchCosts(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch cost table", zap.Error(err))
		if errors.Is(err, domain.ErrRemoteStore) {
			return domain.NewCostMap(), err
		}
		return domain.NewCostMap(), fmt.Errorf("%w: %v", domain.ErrRemoteStore, err)
	}
	if costs == nil {
		costs = domain.NewCostMap()
	}
	s.current = costs.Clone()
	s.loaded = true
	if err := s.cache.Write(ctx, domain.CostSnapshot{Data: s.current.Clone(), Timestamp: s.now()}); err != nil {
		s.logger.Warn("failed to write cost cache", zap.Error(err))
	}
	s.logger.Info("cost table loaded from remote store", zap.Int("products", s.current.Len()))
	return s.current.Clone(), nil
}

// Costs returns a copy of the in-memory table.
func (s *CostStore) Costs() *domain.CostMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// GetCost returns the unit cost of product, zero when unknown.
func (s *CostStore) GetCost(product string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Cost(product)
}

// Save replaces the in-memory table with costs and overwrites the remote
// table and the cache with it. When the remote write fails the in-memory
// table keeps the new values so Sync can retry.
func (s *CostStore) Save(ctx context.Context, costs *domain.CostMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = costs.Clone()
	s.loaded = true
	return s.persist(ctx)
}

// Sync writes the in-memory table to the remote store and the cache.
func (s *CostStore) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// SetCost records the unit cost of one product and saves the table.
func (s *CostStore) SetCost(ctx context.Context, product string, cost decimal.Decimal) error {
	product = strings.TrimSpace(product)
	if product == "" {
		return fmt.Errorf("%w: product name is empty", domain.ErrInvalidValue)
	}
	if cost.IsNegative() {
		return fmt.Errorf("%w: cost of %q is negative", domain.ErrInvalidValue, product)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	s.current.Set(product, cost)
	return s.persist(ctx)
}

// DeleteCost removes a product and saves the table. It reports whether the
// product existed; nothing is saved when it did not.
func (s *CostStore) DeleteCost(ctx context.Context, product string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return false, err
	}
	if !s.current.Delete(product) {
		return false, nil
	}
	return true, s.persist(ctx)
}

// Import merges a flat JSON object of product costs into the table and
// saves it. It returns how many entries were accepted.
func (s *CostStore) Import(ctx context.Context, data []byte) (int, error) {
	imported, err := ParseCostImport(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	s.current.Merge(imported)
	s.logger.Info("cost import merged", zap.Int("accepted", imported.Len()), zap.Int("products", s.current.Len()))
	return imported.Len(), s.persist(ctx)
}

// Export encodes the table as an indented flat JSON object.
func (s *CostStore) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.current, "", "  ")
}

// Stats summarises the in-memory table.
func (s *CostStore) Stats() domain.CostStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Stats()
}

// MissingCosts lists, sorted and without duplicates, the products that
// have no cost in the in-memory table.
func (s *CostStore) MissingCosts(products []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MissingCosts(s.current, products)
}

// ensureLoaded fetches the remote table when nothing was loaded yet. It
// must be called with mu held.
func (s *CostStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if _, err := s.fetch(ctx); err != nil {
		return fmt.Errorf("cost table not loaded, edit not saved: %w", err)
	}
	return nil
}

// persist must be called with mu held.
func (s *CostStore) persist(ctx context.Context) error {
	if s.remote == nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteStore, errRemoteNotConfigured)
	}
	snapshot := s.current.Clone()
	if err := s.remote.ReplaceCosts(ctx, snapshot); err != nil {
		s.logger.Error("failed to save cost table", zap.Error(err), zap.Int("products", snapshot.Len()))
		if errors.Is(err, domain.ErrRemoteStore) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrRemoteStore, err)
	}
	if err := s.cache.Write(ctx, domain.CostSnapshot{Data: snapshot, Timestamp: s.now()}); err != nil {
		return fmt.Errorf("failed to refresh local cost cache: %w", err)
	}
	s.logger.Info("cost table saved", zap.Int("products", snapshot.Len()))
	return nil
}

// MissingCosts lists the products absent from costs, ignoring the unknown
// product placeholder.
func MissingCosts(costs *domain.CostMap, products []string) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, p := range products {
		if p == "" || p == domain.UnknownProduct || seen[p] {
			continue
		}
		seen[p] = true
		if _, ok := costs.Get(p); !ok {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}
