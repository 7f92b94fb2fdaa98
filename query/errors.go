package query

import (
	"errors"
	"fmt"
)

// ErrNoResult is wrapped by every "nothing found" outcome of a query.
var ErrNoResult = errors.New("navmesh query has no result")
var ErrIslandNotFound = fmt.Errorf("%w: island not found", ErrNoResult)
var ErrStartOffMesh = fmt.Errorf("%w: start is too far from the navmesh", ErrNoResult)
var ErrTargetOffMesh = fmt.Errorf("%w: target is too far from the navmesh", ErrNoResult)
var ErrUnreachable = fmt.Errorf("%w: target is unreachable", ErrNoResult)
