package interfaces

import (
	"context"

	"stockpilot/internal/types"
)

type Engine interface {
	Run(ctx context.Context) error
	Step(ctx context.Context, symbol string) (*types.StepResult, error)
}
