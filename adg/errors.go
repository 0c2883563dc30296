package adg

import "errors"

// Errors
var (
	ErrBadOrder           = errors.New("bad perturbative order")
	ErrBadTheory          = errors.New("unrecognized theory")
	ErrBadConfig          = errors.New("bad theory configuration")
	ErrUnsupportedVariant = errors.New("option not supported by this theory")
	ErrBadMatrixDump      = errors.New("bad adjacency matrix dump")
	ErrCatalogParam       = errors.New("bad catalog param")
	ErrCatalogVersion     = errors.New("catalog version is incompatible")
	ErrCatalogMiss        = errors.New("configuration not in catalog")
)
