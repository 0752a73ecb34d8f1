package store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// markerObject is written first with a does-not-exist precondition so
// a name reuse within a run fails before any blob is overwritten.
const markerObject = ".bundle"

type gcsStore struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewGCS creates an artifact store backed by a GCS bucket. All objects
// live under runs/<runID>/ so the store is scoped to a single run.
func NewGCS(client *storage.Client, bucket string, runID types.RunID) interfaces.ArtifactStore {
	return &gcsStore{
		bucket: client.Bucket(bucket),
		prefix: "runs/" + runID.String() + "/",
	}
}

func (s *gcsStore) Put(ctx context.Context, bundle *model.ArtifactBundle) error {
	// The marker object claims the bundle name. GCS rejects the write
	// with a precondition failure if the name was already used.
	marker := s.bucket.Object(s.prefix + bundle.Name + "/" + markerObject).
		If(storage.Conditions{DoesNotExist: true})
	w := marker.NewWriter(ctx)
	if _, err := w.Write([]byte(bundle.Revision)); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write bundle marker", goerr.V("bundle", bundle.Name))
	}
	if err := w.Close(); err != nil {
		return classifyGCSError(err, bundle.Name)
	}

	for _, blob := range bundle.Blobs {
		obj := s.bucket.Object(s.prefix + bundle.Name + "/" + blob.Name)
		bw := obj.NewWriter(ctx)
		if _, err := bw.Write(blob.Data); err != nil {
			_ = bw.Close()
			return goerr.Wrap(err, "failed to upload blob",
				goerr.V("bundle", bundle.Name),
				goerr.V("blob", blob.Name),
			)
		}
		if err := bw.Close(); err != nil {
			return classifyGCSError(err, bundle.Name)
		}
	}

	return nil
}

func (s *gcsStore) GetAll(ctx context.Context, pattern string) ([]*model.ArtifactBundle, error) {
	byName := map[string]*model.ArtifactBundle{}

	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list bundles", goerr.V("prefix", s.prefix))
		}

		rel := strings.TrimPrefix(attrs.Name, s.prefix)
		bundleName, blobName, ok := strings.Cut(rel, "/")
		if !ok || blobName == markerObject {
			continue
		}

		matched, err := path.Match(pattern, bundleName)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid bundle name pattern", goerr.V("pattern", pattern))
		}
		if !matched {
			continue
		}

		data, err := s.readObject(ctx, attrs.Name)
		if err != nil {
			return nil, err
		}

		bundle, ok := byName[bundleName]
		if !ok {
			bundle = &model.ArtifactBundle{
				Name:      bundleName,
				CreatedAt: attrs.Created,
			}
			byName[bundleName] = bundle
		}
		bundle.Blobs = append(bundle.Blobs, model.Blob{Name: blobName, Data: data})
	}

	bundles := make([]*model.ArtifactBundle, 0, len(byName))
	for _, bundle := range byName {
		bundles = append(bundles, bundle)
	}
	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].Name < bundles[j].Name
	})

	return bundles, nil
}

func (s *gcsStore) readObject(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	r, err := s.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("object", name))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("object", name))
	}

	return data, nil
}

func classifyGCSError(err error, bundleName string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusPreconditionFailed:
			return goerr.Wrap(err, "bundle name already used in this run",
				goerr.T(types.TagNameCollision),
				goerr.V("bundle", bundleName),
			)
		case http.StatusUnauthorized, http.StatusForbidden:
			return goerr.Wrap(err, "insufficient permission for artifact store",
				goerr.T(types.TagPermissionDenied),
				goerr.V("bundle", bundleName),
			)
		}
	}
	return goerr.Wrap(err, "artifact store write failed", goerr.V("bundle", bundleName))
}
