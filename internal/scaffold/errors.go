// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Setup failure type

package scaffold

import (
	"errors"
	"fmt"
)

// ErrStepFailed matches every setup failure through errors.Is
var ErrStepFailed = errors.New("setup step failed")

// StepError reports which step aborted the run
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStepFailed, e.Step, e.Err)
}

// Unwrap exposes both ErrStepFailed and the underlying cause
func (e *StepError) Unwrap() []error {
	return []error{ErrStepFailed, e.Err}
}
