package builder

import (
	"errors"
	"fmt"
)

var ErrFailure = errors.New("navmesh operation failed")
var ErrWrongMagic = fmt.Errorf("%w: input data is not recognized", ErrFailure)
var ErrWrongVersion = fmt.Errorf("%w: input data is in wrong version", ErrFailure)
var ErrNonManifold = fmt.Errorf("%w: edge shared by more than two triangles", ErrFailure)
var ErrInvalidMesh = fmt.Errorf("%w: navigation mesh is inconsistent", ErrFailure)
