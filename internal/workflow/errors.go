package workflow

import (
	"errors"
	"fmt"
)

// Sentinel conditions. All of them abort the run.
var (
	ErrMissingInput        = errors.New("no input workflows directory specified")
	ErrDirectoryUnreadable = errors.New("workflows directory unreadable")
	ErrMalformedDefinition = errors.New("malformed workflow definition")
	ErrDanglingDependency  = errors.New("dangling job dependency")
	ErrDuplicateDefinition = errors.New("duplicate workflow definition")
)

// MalformedDefinitionError reports a file that could not be parsed or does
// not have the expected shape.
type MalformedDefinitionError struct {
	File string
	// Line is 1-based; zero when unknown.
	Line int
	Err  error
}

func (e *MalformedDefinitionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *MalformedDefinitionError) Unwrap() error { return e.Err }

// Is matches ErrMalformedDefinition.
func (e *MalformedDefinitionError) Is(target error) bool {
	return target == ErrMalformedDefinition
}

// DanglingDependencyError reports a `needs` entry naming a job key that
// does not exist in the same definition.
type DanglingDependencyError struct {
	Definition string
	Job        string
	Need       string
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("%s: job %q needs unknown job %q", e.Definition, e.Job, e.Need)
}

// Is matches ErrDanglingDependency.
func (e *DanglingDependencyError) Is(target error) bool {
	return target == ErrDanglingDependency
}
