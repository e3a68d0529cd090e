package app

import "errors"

// Presentation surface conditions a host reports through HandleSurfaceError.
var (
	ErrSurfaceLost     = errors.New("app: surface lost")
	ErrSurfaceOutdated = errors.New("app: surface outdated")
	ErrSurfaceTimeout  = errors.New("app: surface timeout")
)
