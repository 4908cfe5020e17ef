package analysis

import (
	"github.com/warp/vesting-engine/generic"
)

// RetentionPoint is what a recipient leaving at an anniversary would forfeit.
type RetentionPoint struct {
	Year  int
	Month generic.Month

	Unvested    generic.Amount
	UnvestedUSD generic.Amount
	VestedUSD   generic.Amount
}

// Retention reports the unvested amount at each anniversary up to the horizon.
func Retention(p *generic.Projection) []RetentionPoint {
	if p == nil {
		return nil
	}

	var out []RetentionPoint
	for m := generic.Month(generic.MonthsPerYear); m <= p.Horizon; m += generic.MonthsPerYear {
		pt, ok := p.PointAt(m)
		if !ok {
			break
		}
		unvested := pt.Balance().Unvested()
		out = append(out, RetentionPoint{
			Year:        m.Year(),
			Month:       m,
			Unvested:    unvested,
			UnvestedUSD: unvested.Priced(pt.PriceUSD),
			VestedUSD:   pt.VestedUSD(),
		})
	}
	return out
}
