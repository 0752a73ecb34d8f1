package store

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

type memoryStore struct {
	mu      sync.Mutex
	bundles map[string]*model.ArtifactBundle
}

// NewMemory creates an in-process artifact store scoped to one run.
// Used for local runs and tests; uploads are publish-once and
// immediately visible to readers.
func NewMemory() interfaces.ArtifactStore {
	return &memoryStore{
		bundles: map[string]*model.ArtifactBundle{},
	}
}

// Put stores a bundle under its name, exactly once per run
func (s *memoryStore) Put(ctx context.Context, bundle *model.ArtifactBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bundles[bundle.Name]; ok {
		return goerr.New("bundle name already used in this run",
			goerr.T(types.TagNameCollision),
			goerr.V("bundle", bundle.Name),
		)
	}

	s.bundles[bundle.Name] = bundle
	return nil
}

// GetAll returns every bundle matching the wildcard pattern, sorted by
// name. An empty result is not an error.
func (s *memoryStore) GetAll(ctx context.Context, pattern string) ([]*model.ArtifactBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*model.ArtifactBundle
	for name, bundle := range s.bundles {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid bundle name pattern", goerr.V("pattern", pattern))
		}
		if ok {
			matched = append(matched, bundle)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	return matched, nil
}
