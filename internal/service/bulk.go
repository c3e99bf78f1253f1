package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/siap-guru-api/internal/dto"
	"github.com/noah-isme/siap-guru-api/pkg/recordstore"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

// writeOp is one record store request inside a bulk operation.
type writeOp struct {
	id    string
	table recordstore.Table
	run   func(ctx context.Context) error
}

// runSequential executes ops one at a time, awaiting each before starting the next, so a bulk
// write costs one round-trip per record. Failures do not stop the loop and nothing already
// written is rolled back. done[i] reports whether ops[i] succeeded.
func runSequential(ctx context.Context, logger *zap.Logger, operation string, ops []writeOp) (dto.BulkResult, []bool) {
	result := dto.BulkResult{Attempted: len(ops)}
	done := make([]bool, len(ops))
	for i, op := range ops {
		var err error
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = op.run(ctx)
		}
		if err != nil {
			result.Failed = append(result.Failed, dto.BulkFailure{ID: op.id, Table: string(op.table), Error: err.Error()})
			logger.Warn("bulk write step failed",
				zap.String("operation", operation),
				zap.String("table", string(op.table)),
				zap.String("id", op.id),
				zap.Error(err),
			)
			continue
		}
		done[i] = true
		result.Succeeded++
	}
	return result, done
}

// partialFailure converts a bulk result with failures into the error surfaced to callers.
func partialFailure(operation string, result dto.BulkResult) error {
	if result.OK() {
		return nil
	}
	return appErrors.WithDetails(
		appErrors.Clone(appErrors.ErrPartialFailure, fmt.Sprintf("%s: %d of %d writes failed", operation, len(result.Failed), result.Attempted)),
		result,
	)
}
