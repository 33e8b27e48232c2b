package goalfolio

// Performance holds a starting value and the value it reached.
type Performance struct {
	Start, End Money
}

func NewPerformance(start, end Money) Performance {
	return Performance{
		Start: start,
		End:   end,
	}
}

// Change is the absolute gain, End - Start.
func (p Performance) Change() Money {
	return p.End.Sub(p.Start)
}

// Percent is the gain relative to Start, 0 when Start is zero.
func (p Performance) Percent() Percent {
	return p.Change().Percent(p.Start)
}
