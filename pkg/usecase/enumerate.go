package usecase

import (
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// ExpandMatrix expands a validated build matrix into the full set of
// build requests for one run, one request per target descriptor. Pure
// expansion: no side effects, each request independently schedulable.
func ExpandMatrix(matrix *model.BuildMatrix, runID types.RunID, revision string) ([]model.BuildRequest, error) {
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	descriptors := matrix.Descriptors()
	requests := make([]model.BuildRequest, 0, len(descriptors))
	for _, descriptor := range descriptors {
		requests = append(requests, model.BuildRequest{
			Target:   descriptor,
			Revision: revision,
			RunID:    runID,
		})
	}

	return requests, nil
}
