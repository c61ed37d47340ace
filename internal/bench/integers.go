package bench

import "recbench/internal/domain"

// Inclusive age bounds counted by the integer pass.
const (
	AgeRangeLow  = 20
	AgeRangeHigh = 30
)

// IntegerResult holds the values derived by the integer pass.
type IntegerResult struct {
	Sum     int64
	Max     int32
	Min     int32
	InRange int // ages within [AgeRangeLow, AgeRangeHigh]
}

// IntegerPass sums ages, finds their extremes and counts ages in range.
// Ages are int32, so the int64 sum cannot wrap for any realistic input.
func IntegerPass(records []domain.Record) (IntegerResult, error) {
	var res IntegerResult
	if len(records) == 0 {
		return res, emptyError("integer operations")
	}

	for _, r := range records {
		res.Sum += int64(r.Age)
	}

	res.Max, res.Min = records[0].Age, records[0].Age
	for _, r := range records[1:] {
		if r.Age > res.Max {
			res.Max = r.Age
		}
		if r.Age < res.Min {
			res.Min = r.Age
		}
	}

	for _, r := range records {
		if r.Age >= AgeRangeLow && r.Age <= AgeRangeHigh {
			res.InRange++
		}
	}
	return res, nil
}
