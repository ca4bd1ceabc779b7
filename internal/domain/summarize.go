package domain

// Summarize derives the policy extremum of a cleaned series: minimum for
// moisture sensors, maximum for temperature sensors. Returns nil for an
// empty series. Ties between equal extreme values go to the earliest
// observation; since cleaned series are chronological, a strict comparison
// while scanning forward gives that for free. The returned value and date
// are taken verbatim from an observation present in the series.
func Summarize(c CleanedSeries) *SummaryPoint {
	if len(c.Points) == 0 {
		return nil
	}

	extremum := c.Kind.Extremum()
	best := c.Points[0]
	for _, p := range c.Points[1:] {
		if extremum == Max && p.Value > best.Value {
			best = p
		}
		if extremum == Min && p.Value < best.Value {
			best = p
		}
	}

	return &SummaryPoint{
		Kind:     c.Kind,
		Extremum: extremum,
		Value:    best.Value,
		Date:     best.Date,
	}
}
