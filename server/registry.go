package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/logger"
	"github.com/o0olele/navmesh-go/math32"
	"github.com/o0olele/navmesh-go/query"
	"github.com/o0olele/navmesh-go/store"
)

// ErrMeshNotFound is returned for names that are neither cached nor stored
var ErrMeshNotFound = errors.New("navmesh not found")

// Registry 导航网格注册表: an LRU of ready queryers in front of the store.
// Without a store the LRU is the only copy, so evicted meshes are gone.
type Registry struct {
	store *store.Store
	cache *math32.Cache[string, *query.NavigationQuery]
	prefs *query.PathPreferences
	locks nameLocks
}

// nameLocks serializes the store and cache updates of one name
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	sync.Mutex
	refs int
}

// lock takes the lock of name and returns its unlock
func (l *nameLocks) lock(name string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*nameLock)
	}
	nl, ok := l.locks[name]
	if !ok {
		nl = &nameLock{}
		l.locks[name] = nl
	}
	nl.refs++
	l.mu.Unlock()

	nl.Lock()
	return func() {
		nl.Unlock()
		l.mu.Lock()
		if nl.refs--; nl.refs == 0 {
			delete(l.locks, name)
		}
		l.mu.Unlock()
	}
}

// NewRegistry creates a registry. s may be nil.
func NewRegistry(s *store.Store, cacheSize int, prefs *query.PathPreferences) *Registry {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	cache := math32.NewCache[string, *query.NavigationQuery](cacheSize)
	cache.OnEvict(func(name string, _ *query.NavigationQuery) {
		logger.Debug("navmesh %v evicted from cache", name)
	})
	return &Registry{store: s, cache: cache, prefs: prefs}
}

// Put stores the mesh and makes it the current version of name
func (r *Registry) Put(name string, navMesh *builder.NavMesh) (*query.NavigationQuery, error) {
	nq, err := query.NewNavigationQueryWithPreferences(navMesh, r.prefs)
	if err != nil {
		return nil, err
	}

	unlock := r.locks.lock(name)
	defer unlock()
	if r.store != nil {
		if err := r.store.SaveMesh(name, navMesh); err != nil {
			return nil, err
		}
	}
	r.cache.Put(name, nq)
	return nq, nil
}

// Get returns the queryer of name, loading it from the store on a cache miss
func (r *Registry) Get(name string) (*query.NavigationQuery, error) {
	if nq, ok := r.cache.Get(name); ok {
		return nq, nil
	}
	if r.store == nil {
		return nil, fmt.Errorf("%w: %v", ErrMeshNotFound, name)
	}

	// a Delete running meanwhile either finishes first or sees the cached copy
	unlock := r.locks.lock(name)
	defer unlock()
	navMesh, err := r.store.LoadMesh(name)
	if err != nil {
		if errors.Is(err, store.ErrMeshNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrMeshNotFound, name)
		}
		return nil, err
	}
	nq, err := query.NewNavigationQueryWithPreferences(navMesh, r.prefs)
	if err != nil {
		return nil, err
	}
	r.cache.Put(name, nq)
	logger.Debug("navmesh %v loaded from store", name)
	return nq, nil
}

// Delete drops name from the cache and the store
func (r *Registry) Delete(name string) error {
	unlock := r.locks.lock(name)
	defer unlock()

	cached := r.cache.Remove(name)
	if r.store == nil {
		if !cached {
			return fmt.Errorf("%w: %v", ErrMeshNotFound, name)
		}
		return nil
	}
	if err := r.store.DeleteMesh(name); err != nil {
		if errors.Is(err, store.ErrMeshNotFound) {
			if cached {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrMeshNotFound, name)
		}
		return err
	}
	return nil
}

// List returns the known mesh names in order
func (r *Registry) List() ([]string, error) {
	if r.store == nil {
		names := r.cache.Keys()
		sort.Strings(names)
		return names, nil
	}
	infoList, err := r.store.ListMeshes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infoList))
	for _, info := range infoList {
		names = append(names, info.Name)
	}
	return names, nil
}

// CacheStats 缓存统计
func (r *Registry) CacheStats() math32.CacheStats {
	return r.cache.GetStats()
}
