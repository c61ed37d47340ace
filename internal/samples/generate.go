// Package samples produces synthetic benchmark inputs.
package samples

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"recbench/internal/domain"
)

var (
	bornFrom = time.Date(1944, time.January, 1, 0, 0, 0, 0, time.UTC)
	bornTo   = time.Date(2006, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Generate returns count records with ids 1..count. The same seed always
// yields the same records, seed 0 included. Ages lie in [18, 80], heights
// in [1.5, 2.0] rounded to 5 places, weights in [50, 100] rounded to 3
// places, and born dates are formatted dd/mm/yyyy.
func Generate(count int, seed uint64) ([]domain.Record, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}

	// gofakeit.New treats seed 0 as "random", so the source is built here.
	faker := gofakeit.NewFaker(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), false)

	out := make([]domain.Record, count)
	for i := range out {
		out[i] = domain.Record{
			ID:     int64(i + 1),
			Name:   faker.Name(),
			Age:    int32(faker.IntRange(18, 80)),
			City:   faker.City(),
			Born:   faker.DateRange(bornFrom, bornTo).Format("02/01/2006"),
			Height: round(faker.Float64Range(1.5, 2.0), 5),
			Weight: round(faker.Float64Range(50, 100), 3),
		}
	}
	return out, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
