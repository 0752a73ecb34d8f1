package interfaces

import (
	"context"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// RunRepository persists run records across state transitions
type RunRepository interface {
	Save(ctx context.Context, record *model.RunRecord) error
	Get(ctx context.Context, id types.RunID) (*model.RunRecord, error)
}
