package runway

// Trend is the spending-discipline indicator: how this period's
// spend-share of income compares to the prior period's.
type Trend string

const (
	// TrendUp means the spend share rose.
	TrendUp Trend = "up"
	// TrendDown means the spend share fell.
	TrendDown Trend = "down"
	// TrendNeutral means the change stayed inside the hysteresis band.
	TrendNeutral Trend = "neutral"
)

// disciplineHysteresis is the percentage-point band around the prior
// period inside which the trend reads neutral, so the indicator does
// not flap on small month-to-month noise.
const disciplineHysteresis = 5.0

// compareDiscipline classifies the movement between two
// spend-percentage-of-income figures.
func compareDiscipline(currentPct, previousPct float64) Trend {
	diff := currentPct - previousPct
	switch {
	case diff > disciplineHysteresis:
		return TrendUp
	case diff < -disciplineHysteresis:
		return TrendDown
	default:
		return TrendNeutral
	}
}
