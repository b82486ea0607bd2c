package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cascadeStep is one unit of a multi-collection delete. Steps are
// individually idempotent so a failed cascade can be retried whole.
type cascadeStep struct {
	name string
	run  func(context.Context) error
}

// runCascade executes steps in order, children before parents. No ambient
// transaction spans the steps: a crash or failure partway leaves earlier
// steps applied and later ones pending, which the ordering keeps recoverable
// (an orphaned parent record, found again on retry, rather than orphaned
// children pointing at a deleted parent). Failures are logged with enough
// context to reconcile manually if the caller never retries.
func runCascade(ctx context.Context, logger *slog.Logger, kind string, id primitive.ObjectID, steps []cascadeStep) error {
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			logger.Error("cascade step failed",
				"entity", kind,
				"id", id.Hex(),
				"step", step.name,
				"error", err,
			)
			return fmt.Errorf("cascade %s %s: %s: %w", kind, id.Hex(), step.name, err)
		}
	}
	return nil
}
