package arena2d

import "errors"

// Sentinel errors for the invariant-violation error kind: programmer
// mistakes that return an explicit error instead of corrupting state or
// panicking. Recoverable coercions (invalid units, scale 0, alpha out of
// range) and missed operations (removeChild on a non-child, off on an
// unregistered handler, a missing id lookup) are silent by design — see
// the Failure model notes on each component — and have no error type here.
var (
	// ErrLayerNotFound is returned by View.RemoveLayer and View.NamedLayer when
	// no layer is registered under the given name.
	ErrLayerNotFound = errors.New("arena2d: layer not found")
	// ErrLayerExists is returned by View.AddLayer when the name is already
	// registered.
	ErrLayerExists = errors.New("arena2d: layer already exists")
	// ErrSingularTransform is a sentinel for callers that need an invertible
	// matrix and got a singular one. No function in this package returns
	// it: View.ProjectionMatrix reports a degenerate source rect with
	// ok=false, and internal consumers like hitTest treat Matrix.Invert's
	// ok=false as a silent miss.
	ErrSingularTransform = errors.New("arena2d: transform is singular")
)
