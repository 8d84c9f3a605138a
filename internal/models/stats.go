package models

// Stats accumulates counters over a single preprocessing run.
type Stats struct {
	OriginalLines  int
	CleanedLines   int
	RemovedLines   int
	FAQChunks      int
	BusinessChunks int
	ServiceChunks  int
}

// ReductionPercent returns removed lines as a share of original lines.
func (s *Stats) ReductionPercent() float64 {
	return Percent(s.RemovedLines, s.OriginalLines)
}

// Percent returns part/total*100, or 0 when total is zero.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
