package returns

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for a two-flow series constructed from a known rate r over a
// known holding period, the solver recovers r. This pins the day-count
// convention (days/365.25) as much as the root-finder.
func TestProperty_XIRRRecoversConstructedRate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	e := newTestEngine()

	properties.Property("constructed rate is recovered", prop.ForAll(
		func(rate float64, days int, principal float64) bool {
			years := float64(days) / 365.25
			terminal := principal * math.Pow(1+rate, years)

			flows := []CashFlow{
				{Date: t0, Amount: -principal},
				{Date: t0.AddDate(0, 0, days), Amount: terminal},
			}

			got, err := e.XIRR(flows, 0.1)
			if err != nil {
				t.Logf("no convergence for rate=%f days=%d", rate, days)
				return false
			}
			if math.Abs(got-rate) > 5e-3 {
				t.Logf("rate=%f days=%d got=%f", rate, days, got)
				return false
			}
			return true
		},
		gen.Float64Range(-0.8, 4.0),
		gen.IntRange(30, 1500),
		gen.Float64Range(1000, 1000000),
	))

	// A pure gain keeps its sign, a pure loss keeps its sign.
	properties.Property("sign of the rate matches sign of the outcome", prop.ForAll(
		func(gain float64, days int) bool {
			flows := []CashFlow{
				{Date: t0, Amount: -10000},
				{Date: t0.AddDate(0, 0, days), Amount: 10000 * gain},
			}

			got, err := e.XIRR(flows, 0.1)
			if err != nil {
				return true // extreme series may legitimately fail to bracket
			}
			if gain > 1.001 && got <= 0 {
				t.Logf("gain=%f days=%d got=%f", gain, days, got)
				return false
			}
			if gain < 0.999 && got >= 0 {
				t.Logf("gain=%f days=%d got=%f", gain, days, got)
				return false
			}
			return true
		},
		gen.Float64Range(0.2, 3.0),
		gen.IntRange(30, 1500),
	))

	properties.TestingRun(t)
}
