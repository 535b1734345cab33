package carousel

import "math/rand/v2"

// Point is a decorative position inside a bounding box.
type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Shuffle returns a shuffled copy of items, leaving the input untouched.
// A nil r uses the package level generator.
func Shuffle(items []Item, r *rand.Rand) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
		return out
	}
	r.Shuffle(len(out), swap)
	return out
}

// Scatter places n blurred background blobs inside a width x height box. The
// radius of each blob stays between 10% and 25% of the smaller side.
func Scatter(n int, width, height float64, r *rand.Rand) []Point {
	if n <= 0 || width <= 0 || height <= 0 {
		return []Point{}
	}

	float := rand.Float64
	if r != nil {
		float = r.Float64
	}

	side := min(width, height)
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			X:      float() * width,
			Y:      float() * height,
			Radius: side * (0.10 + 0.15*float()),
		}
	}
	return points
}
