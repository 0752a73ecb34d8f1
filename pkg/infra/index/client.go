package index

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// tokenUser is the fixed username for token-authenticated uploads
const tokenUser = "__token__"

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a functional option for the index client
type Option func(*client)

// WithHTTPClient overrides the HTTP client used for uploads
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a package index publisher that uploads wheel files with
// the legacy multipart upload protocol, non-interactively.
func New(baseURL, token string, opts ...Option) interfaces.IndexPublisher {
	c := &client{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish uploads every file of the bundle. File-level conflicts are
// skipped; if the whole bundle already existed at the index, the
// returned error carries TagPublishConflict so the publish gate can
// record skip-existing instead of failing the run.
func (c *client) Publish(ctx context.Context, bundle *model.ArtifactBundle) error {
	logger := ctxlog.From(ctx)

	conflicts := 0
	for _, blob := range bundle.Blobs {
		err := c.uploadFile(ctx, blob)
		if err == nil {
			logger.Info("Uploaded artifact to index",
				"bundle", bundle.Name,
				"file", blob.Name,
			)
			continue
		}

		if goerr.HasTag(err, types.TagPublishConflict) {
			conflicts++
			logger.Info("Artifact file already at index",
				"bundle", bundle.Name,
				"file", blob.Name,
			)
			continue
		}

		return goerr.Wrap(err, "failed to upload artifact file",
			goerr.V("bundle", bundle.Name),
			goerr.V("file", blob.Name),
		)
	}

	if len(bundle.Blobs) > 0 && conflicts == len(bundle.Blobs) {
		return goerr.New("every artifact identity already exists at index",
			goerr.T(types.TagPublishConflict),
			goerr.V("bundle", bundle.Name),
		)
	}

	return nil
}

func (c *client) uploadFile(ctx context.Context, blob model.Blob) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField(":action", "file_upload"); err != nil {
		return goerr.Wrap(err, "failed to build upload form")
	}
	if err := mw.WriteField("protocol_version", "1"); err != nil {
		return goerr.Wrap(err, "failed to build upload form")
	}
	fw, err := mw.CreateFormFile("content", blob.Name)
	if err != nil {
		return goerr.Wrap(err, "failed to build upload form")
	}
	if _, err := fw.Write(blob.Data); err != nil {
		return goerr.Wrap(err, "failed to build upload form")
	}
	if err := mw.Close(); err != nil {
		return goerr.Wrap(err, "failed to build upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(tokenUser, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "upload request failed")
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(string(respBody)), "already exists"):
		return goerr.New("artifact identity already exists at index",
			goerr.T(types.TagPublishConflict),
			goerr.V("file", blob.Name),
		)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return goerr.New("index rejected capability grant",
			goerr.T(types.TagPermissionDenied),
			goerr.V("status", resp.StatusCode),
		)
	default:
		return goerr.New("unexpected index response",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}
}
