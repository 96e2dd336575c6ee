package pipeline

import "fmt"

// StageError marks a fatal failure at a named pipeline stage. It unwinds to
// the run boundary; per-unit degradations are logged instead and never
// become a StageError.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
