package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/wavesplatform/goserde/pkg/value"
)

const (
	canadaRings     = 480
	canadaMinPoints = 8
	canadaMaxPoints = 456
	canadaSeed1     = 0x63616e616461
	canadaSeed2     = 0x67656f6a736f6e

	minLongitude = -141.0
	maxLongitude = -52.6
	minLatitude  = 41.7
	maxLatitude  = 83.1
)

func buildCanada() value.Value {
	rnd := rand.New(rand.NewPCG(canadaSeed1, canadaSeed2))
	rings := make([]value.Value, canadaRings)
	for i := range rings {
		rings[i] = ring(rnd, canadaMinPoints+rnd.IntN(canadaMaxPoints-canadaMinPoints+1))
	}
	geometry := value.NewMappingBuilder().
		MustAdd("type", value.String("Polygon")).
		MustAdd("coordinates", value.NewSequence(rings...)).
		Build()
	feature := value.NewMappingBuilder().
		MustAdd("type", value.String("Feature")).
		MustAdd("properties", value.NewMappingBuilder().MustAdd("name", value.String("Canada")).Build()).
		MustAdd("geometry", geometry).
		Build()
	return value.NewMappingBuilder().
		MustAdd("type", value.String("FeatureCollection")).
		MustAdd("features", value.NewSequence(feature)).
		Build()
}

// ring produces a closed ring of n distinct points around a random center. The first point is
// repeated at the end as GeoJSON requires.
func ring(rnd *rand.Rand, n int) value.Value {
	cx := minLongitude + rnd.Float64()*(maxLongitude-minLongitude)
	cy := minLatitude + rnd.Float64()*(maxLatitude-minLatitude)
	radius := 0.01 + rnd.Float64()*2
	points := make([]value.Value, n+1)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (0.8 + 0.4*rnd.Float64())
		lon := clamp(cx+r*math.Cos(theta), minLongitude, maxLongitude)
		lat := clamp(cy+r*math.Sin(theta), minLatitude, maxLatitude)
		points[i] = value.NewSequence(value.Float(lon), value.Float(lat))
	}
	points[n] = points[0]
	return value.NewSequence(points...)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
