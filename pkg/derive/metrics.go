// Package derive computes cost efficiency, share and period-over-period metrics from the
// normalized tables. Every function here is pure and has an explicit zero-denominator policy.
package derive

// ZeroPolicy names what a ratio yields when its denominator is zero.
type ZeroPolicy int

const (
	// Undefined marks the value as missing. Used by the campaign view, where a campaign
	// without conversions must never look like a free one.
	Undefined ZeroPolicy = iota
	// FallbackToCost yields the cost itself, or 0 when the cost is 0 too. Used by the device table.
	FallbackToCost
	// Zero yields 0. Used by the average CPA summary card.
	Zero
)

func (p ZeroPolicy) String() string {
	switch p {
	case Undefined:
		return "undefined"
	case FallbackToCost:
		return "fallback-to-cost"
	default:
		return "zero"
	}
}

// CPA is a cost per acquisition together with the policy that produced it.
type CPA struct {
	Value   float64    `json:"value"`
	Defined bool       `json:"defined"`
	Policy  ZeroPolicy `json:"-"`
}

// CampaignCPA is cost / conversions, undefined when there are no conversions.
func CampaignCPA(cost, conversions float64) CPA {
	if conversions > 0 {
		return CPA{Value: cost / conversions, Defined: true, Policy: Undefined}
	}
	return CPA{Policy: Undefined}
}

// DeviceCPA is cost / conversions, falling back to the raw cost when there are no conversions.
func DeviceCPA(cost, conversions float64) CPA {
	switch {
	case conversions > 0:
		return CPA{Value: cost / conversions, Defined: true, Policy: FallbackToCost}
	case cost > 0:
		return CPA{Value: cost, Defined: true, Policy: FallbackToCost}
	default:
		return CPA{Value: 0, Defined: true, Policy: FallbackToCost}
	}
}

// AverageCPA is total cost / total conversions, 0 when there are no conversions.
func AverageCPA(totalCost, totalConversions float64) CPA {
	if totalConversions > 0 {
		return CPA{Value: totalCost / totalConversions, Defined: true, Policy: Zero}
	}
	return CPA{Value: 0, Defined: true, Policy: Zero}
}

// Shares returns every value as a percentage of the column total. The total is computed
// once; a zero total makes every share 0.
func Shares(values []float64) []float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	if total == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / total * 100
	}
	return out
}

// PercentChange is (current - prior) / prior * 100. A zero prior yields 100 when current is
// positive and 0 otherwise; this is a known approximation, kept so results never go infinite.
func PercentChange(current, prior float64) float64 {
	if prior != 0 {
		return (current - prior) / prior * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// Difference is current - prior.
func Difference(current, prior float64) float64 {
	return current - prior
}

// argmax returns the index of the first largest value, or -1 for an empty slice.
func argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
