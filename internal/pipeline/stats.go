package pipeline

import (
	"github.com/oukeidos/batrans/internal/dataset"
	"github.com/oukeidos/batrans/internal/translator"
)

// Stats summarizes a run. Successful counts every row with a recorded
// outcome, including rows that ended in a failure marker; Failed counts the
// marker rows. The two overlap on purpose so Successful/Total reads as
// coverage and Failed as the error share.
type Stats struct {
	Total      int
	Successful int
	Failed     int
}

// SuccessRate returns Successful over Total, 0 for an empty dataset.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total)
}

// Collect derives run statistics from the dataset state.
func Collect(ds *dataset.Dataset) Stats {
	stats := Stats{Total: ds.Len()}
	for i := 0; i < ds.Len(); i++ {
		if ds.Done(i) {
			stats.Successful++
		}
		if translator.IsFailureMarker(ds.Translated(i)) {
			stats.Failed++
		}
	}
	return stats
}
