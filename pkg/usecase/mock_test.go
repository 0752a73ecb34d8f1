package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// fakeBackend produces one synthetic wheel per request, or fails the
// targets listed in failKeys.
type fakeBackend struct {
	mu       sync.Mutex
	built    []string
	failKeys map[string]error
	delay    time.Duration
}

func (b *fakeBackend) Build(ctx context.Context, req *model.BuildRequest) (*model.ArtifactBundle, error) {
	if err, ok := b.failKeys[req.Target.Key()]; ok {
		return nil, err
	}

	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	b.built = append(b.built, req.Target.Key())
	b.mu.Unlock()

	return &model.ArtifactBundle{
		Name:     req.Target.BundleName(),
		Revision: req.Revision,
		Blobs: []model.Blob{
			{
				Name: "pkg-0.1.0-" + req.Target.Key() + ".whl",
				Data: []byte("wheel for " + req.Target.Key()),
			},
		},
		CreatedAt: time.Now(),
	}, nil
}

func (b *fakeBackend) builtKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.built...)
}

// fakeAttestor signs by recording the statement and producing a
// deterministic envelope.
type fakeAttestor struct {
	mu         sync.Mutex
	statements []*model.Statement
	err        error
}

func (a *fakeAttestor) Attest(ctx context.Context, statement *model.Statement) (*model.AttestationRecord, error) {
	if a.err != nil {
		return nil, a.err
	}

	a.mu.Lock()
	a.statements = append(a.statements, statement)
	a.mu.Unlock()

	return &model.AttestationRecord{
		Statement: *statement,
		Envelope:  []byte("signed-envelope"),
		KeyID:     "test-key",
		SignedAt:  time.Now(),
	}, nil
}

// fakePublisher records publishes and returns per-bundle errors
type fakePublisher struct {
	mu        sync.Mutex
	published []string
	errs      map[string]error
}

func (p *fakePublisher) Publish(ctx context.Context, bundle *model.ArtifactBundle) error {
	p.mu.Lock()
	p.published = append(p.published, bundle.Name)
	p.mu.Unlock()

	if err, ok := p.errs[bundle.Name]; ok {
		return err
	}
	return nil
}

// memRunRepository keeps the latest record per run in memory
type memRunRepository struct {
	mu      sync.Mutex
	records map[types.RunID]*model.RunRecord
	saves   int
}

func newMemRunRepository() *memRunRepository {
	return &memRunRepository{records: map[types.RunID]*model.RunRecord{}}
}

func (r *memRunRepository) Save(ctx context.Context, record *model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.records[record.ID] = &copied
	r.saves++
	return nil
}

func (r *memRunRepository) Get(ctx context.Context, id types.RunID) (*model.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id], nil
}
