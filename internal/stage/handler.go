package stage

import (
	"context"

	"jobflow/internal/queue"
)

// Input is what a stage receives for one work item.
type Input struct {
	Item queue.WorkItem
	// Dir is the item's storage location. It exists before Execute runs,
	// except for stages that infer the identifier and run before the
	// location is known.
	Dir string
}

// Field returns a trimmed tracker cell of the item.
func (in Input) Field(column string) string { return in.Item.Get(column) }

// Handler describes the contract the processor needs from each stage.
type Handler interface {
	Name() string
	Execute(context.Context, Input) Result
	HealthCheck(context.Context) Health
}
