package environment

import "errors"

// Pair validation errors, surfaced before any chart data is touched.
var (
	ErrSize         = errors.New("environment: size should be a pair of size two")
	ErrSizePositive = errors.New("environment: size components should be positive")
	ErrOrigin       = errors.New("environment: origin should be a pair of size two")
	ErrCenter       = errors.New("environment: center should be a pair of size two")
)

// Extent is the rectangular region of interest in projected coordinates.
// It is immutable after construction.
type Extent struct {
	Size   [2]float64
	Origin [2]float64
	Center [2]float64
	BBox   [4]float64
	Area   float64
}

// NewExtent derives an extent from a size and origin pair. center may be
// nil, in which case it is derived from the origin; when given, it must be
// a pair and overrides the derived value.
func NewExtent(size, origin, center []float64) (*Extent, error) {
	if len(size) != 2 {
		return nil, ErrSize
	}
	if size[0] <= 0 || size[1] <= 0 {
		return nil, ErrSizePositive
	}
	if len(origin) != 2 {
		return nil, ErrOrigin
	}
	if center != nil && len(center) != 2 {
		return nil, ErrCenter
	}

	e := &Extent{
		Size:   [2]float64{size[0], size[1]},
		Origin: [2]float64{origin[0], origin[1]},
	}
	if center != nil {
		e.Center = [2]float64{center[0], center[1]}
	} else {
		e.Center = [2]float64{
			e.Origin[0] + e.Size[0]/2,
			e.Origin[1] + e.Size[1]/2,
		}
	}
	e.BBox = [4]float64{
		e.Origin[0],
		e.Origin[1],
		e.Origin[0] + e.Size[0],
		e.Origin[1] + e.Size[1],
	}
	e.Area = e.Size[0] * e.Size[1]
	return e, nil
}
