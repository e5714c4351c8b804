package blob

import "errors"

// Errors returned by Forest operations. They are wrapped with context, so
// compare with errors.Is.
var (
	// ErrInvalidArgument reports a negative pixel count or an empty raster.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfRange reports a pixel index outside [0, n).
	ErrIndexOutOfRange = errors.New("pixel index out of range")

	// ErrBackground reports a Find on a pixel that belongs to no component.
	ErrBackground = errors.New("pixel is background")

	// ErrNotFlat reports a flat-only lookup made before Flatten.
	ErrNotFlat = errors.New("forest is not flattened")

	// ErrNotPopulated reports a Flatten before any Populate.
	ErrNotPopulated = errors.New("forest is not populated")
)
