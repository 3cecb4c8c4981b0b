package analyzer

import "errors"

var (
	// ErrRootNotFound indicates the requested function has no definition in
	// any scanned file.
	ErrRootNotFound = errors.New("function not found")

	// ErrEmptyRoot indicates a blank function name.
	ErrEmptyRoot = errors.New("function name is required")

	// ErrNoFiles indicates discovery selected no code files. A run still
	// completes in that case; callers use it to explain the empty result.
	ErrNoFiles = errors.New("no code files found")
)
