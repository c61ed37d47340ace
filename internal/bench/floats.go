package bench

import (
	"fmt"
	"math"

	"recbench/internal/domain"
)

// ScaleFactor multiplies every height and weight in the float pass.
const ScaleFactor = 1.1

// FloatResult holds the values derived by the float pass.
type FloatResult struct {
	AvgHeight float64
	AvgWeight float64
	MaxHeight float64
	MinHeight float64
	MaxWeight float64
	MinWeight float64

	ScaledHeights []float64
	ScaledWeights []float64
}

// FloatPass averages heights and weights, finds their extremes and scales
// them by ScaleFactor. It fails on an empty collection and on the first
// NaN, since NaN has no place in an ordering.
func FloatPass(records []domain.Record) (FloatResult, error) {
	var res FloatResult
	if len(records) == 0 {
		return res, emptyError("float operations")
	}
	for i, r := range records {
		if math.IsNaN(r.Height) {
			return res, nanError(i, domain.FieldHeight)
		}
		if math.IsNaN(r.Weight) {
			return res, nanError(i, domain.FieldWeight)
		}
	}

	var totalHeight, totalWeight float64
	for _, r := range records {
		totalHeight += r.Height
		totalWeight += r.Weight
	}
	n := float64(len(records))
	res.AvgHeight = totalHeight / n
	res.AvgWeight = totalWeight / n

	first := records[0]
	res.MaxHeight, res.MinHeight = first.Height, first.Height
	res.MaxWeight, res.MinWeight = first.Weight, first.Weight
	for _, r := range records[1:] {
		if r.Height > res.MaxHeight {
			res.MaxHeight = r.Height
		}
		if r.Height < res.MinHeight {
			res.MinHeight = r.Height
		}
		if r.Weight > res.MaxWeight {
			res.MaxWeight = r.Weight
		}
		if r.Weight < res.MinWeight {
			res.MinWeight = r.Weight
		}
	}

	res.ScaledHeights = make([]float64, len(records))
	res.ScaledWeights = make([]float64, len(records))
	for i, r := range records {
		res.ScaledHeights[i] = r.Height * ScaleFactor
		res.ScaledWeights[i] = r.Weight * ScaleFactor
	}
	return res, nil
}

func nanError(i int, field string) error {
	return &Error{
		Kind: KindNaN,
		Op:   "float operations",
		Err:  fmt.Errorf("record %d: %s: %w", i, field, ErrNaN),
	}
}
