package inference

import "context"

// Inferencer defines an interface for running model inference and verification.
type Inferencer interface {
	Infer(ctx context.Context, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}
