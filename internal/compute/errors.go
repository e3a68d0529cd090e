package compute

import (
	"errors"
	"fmt"
)

var (
	// ErrCompile indicates a program source was rejected by the backend.
	ErrCompile = errors.New("compute: program compilation failed")

	// ErrOutOfMemory indicates the backend could not allocate a buffer.
	ErrOutOfMemory = errors.New("compute: out of device memory")

	// ErrUnavailable indicates the backend cannot run on this host.
	ErrUnavailable = errors.New("compute: backend not available")

	// ErrBufferSize indicates a buffer does not match the grid it is used with.
	ErrBufferSize = errors.New("compute: buffer size mismatch")

	// ErrRulestring indicates a malformed B/S rulestring.
	ErrRulestring = errors.New("compute: invalid rulestring")
)

// CompileError carries the backend's diagnostic for a rejected program.
type CompileError struct {
	Backend string
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compute: %s: compile failed: %s", e.Backend, e.Log)
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}
