package domain

import "errors"

// ErrInvalidConfig is returned when a Surveyor is built with an unusable configuration.
var ErrInvalidConfig = errors.New("invalid surveyor configuration")

// ErrNoProgram is returned when neither a Program nor seed paths are supplied.
var ErrNoProgram = errors.New("no program or seed paths")

// ErrDuplicatePath is returned when a path ID is already tracked by the scheduler.
var ErrDuplicatePath = errors.New("path already tracked")

// ErrPathNotFound is returned when a path ID is not in the expected set.
var ErrPathNotFound = errors.New("path not found")

// ErrSnapshotNotFound is returned when a suspended snapshot cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")
