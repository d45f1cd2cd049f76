package layer

// Curve transforms linear animation progress in [0, 1] into eased
// progress in [0, 1].
type Curve func(t float64) float64

// Linear returns progress unchanged.
func Linear(t float64) float64 {
	return clampUnit(t)
}

// EaseOutCubic starts fast and decelerates into the target: 1-(1-t)^3.
// Angular velocity decreases monotonically and reaches zero exactly at
// the end, which is the profile a wheel needs to visibly slow into its
// final slice.
func EaseOutCubic(t float64) float64 {
	t = clampUnit(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}

func clampUnit(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
