package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/shandysiswandi/flaken/internal/flake/entity"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgerror"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

// InMemoryStore keeps node generators for the lifetime of the process.
// Generator state is never persisted.
type InMemoryStore struct {
	mu    sync.RWMutex
	nodes map[uint64]*nodeRecord
}

type nodeRecord struct {
	mu     sync.Mutex
	gen    *pkguid.Snowflake
	issued uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nodes: make(map[uint64]*nodeRecord),
	}
}

func (s *InMemoryStore) CreateNode(ctx context.Context, gen *pkguid.Snowflake) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[gen.Identifier()]; exists {
		return pkgerror.NewConflict("node already registered")
	}

	s.nodes[gen.Identifier()] = &nodeRecord{gen: gen}

	return nil
}

// Issue draws count ids from the node's generator and records how many it
// has issued so far.
func (s *InMemoryStore) Issue(ctx context.Context, identifier uint64, count int) ([]uint64, error) {
	rec, err := s.get(identifier)
	if err != nil {
		return nil, err
	}

	ids := rec.gen.GenerateN(count)

	rec.mu.Lock()
	rec.issued += uint64(len(ids))
	rec.mu.Unlock()

	return ids, nil
}

func (s *InMemoryStore) ListNodes(ctx context.Context) ([]entity.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]entity.Node, 0, len(s.nodes))
	for identifier, rec := range s.nodes {
		rec.mu.Lock()
		nodes = append(nodes, entity.Node{Identifier: identifier, Issued: rec.issued})
		rec.mu.Unlock()
	}

	slices.SortFunc(nodes, func(a, b entity.Node) int {
		return cmp.Compare(a.Identifier, b.Identifier)
	})

	return nodes, nil
}

func (s *InMemoryStore) get(identifier uint64) (*nodeRecord, error) {
	s.mu.RLock()
	rec, ok := s.nodes[identifier]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
