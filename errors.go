package reliefbuilder

import "github.com/pkg/errors"

// Error kinds surfaced by the pipeline. Stages fail synchronously and never
// downgrade an error to a warning; use errors.Is to classify a failure.
var (
	// ErrDecode reports a missing, unreadable or unsupported input image.
	ErrDecode = errors.New("decode input image")
	// ErrInvalidParameter reports an option rejected before any grid processing.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrPrecondition reports a grid that violates a stage's input contract.
	ErrPrecondition = errors.New("precondition violated")
	// ErrWrite reports a failure writing the output mesh file.
	ErrWrite = errors.New("write output")
)
