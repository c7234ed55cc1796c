package pluralforms

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Samples expands a CLDR sample string such as
// "@integer 0, 2~16, 100, 1c3, … @decimal 0.1~0.9" into concrete numbers.
//
// Supported items are bare numbers, ranges "a~b", compact numbers "NcM"
// (N × 10^M) and the ellipsis marker, which is ignored.
func Samples(spec string) ([]float64, error) {
	spec = strings.NewReplacer("@integer", ",", "@decimal", ",", "…", ",", "...", ",").Replace(spec)

	var out []float64
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		switch {
		case item == "":
			continue
		case strings.Contains(item, "~"):
			r, err := FillRange(item)
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
		case strings.Contains(item, "c"):
			num, exp, _ := strings.Cut(item, "c")
			v, err := strconv.ParseFloat(num+"e"+exp, 64)
			if err != nil {
				return nil, fmt.Errorf("pluralforms: invalid compact sample %q", item)
			}
			out = append(out, v)
		default:
			v, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return nil, fmt.Errorf("pluralforms: invalid sample %q", item)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// FillRange expands a range "a~b" into every number from a to b inclusive.
// The step is one unit in the last fraction digit of a, so "0.04~0.09" steps
// by 0.01. A range whose last generated value is not b is reported with
// ErrRangeMismatch.
func FillRange(value string) ([]float64, error) {
	startText, endText, ok := strings.Cut(value, "~")
	if !ok {
		return nil, fmt.Errorf("pluralforms: %q is not a range", value)
	}
	startText, endText = strings.TrimSpace(startText), strings.TrimSpace(endText)

	start, err := strconv.ParseFloat(startText, 64)
	if err != nil {
		return nil, fmt.Errorf("pluralforms: invalid range start in %q", value)
	}
	end, err := strconv.ParseFloat(endText, 64)
	if err != nil {
		return nil, fmt.Errorf("pluralforms: invalid range end in %q", value)
	}

	decimals := 0
	if _, frac, ok := strings.Cut(startText, "."); ok {
		decimals = len(frac)
	}
	scale := math.Pow(10, float64(decimals))
	from, to := snap(start*scale), snap(end*scale)

	count := int(math.Ceil(to - from + 1))
	if count <= 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrRangeMismatch, value)
	}

	out := make([]float64, count)
	for i := range out {
		out[i] = math.Round(from+float64(i)) / scale
	}
	if last := out[len(out)-1]; math.Abs(last-end) > 1e-9 {
		return nil, fmt.Errorf("%w: %q ends at %v", ErrRangeMismatch, value, last)
	}
	return out, nil
}

// snap removes floating point noise such as 8.999999999 from scaled values.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-6 {
		return r
	}
	return v
}
