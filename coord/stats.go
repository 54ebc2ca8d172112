package coord

import (
	"github.com/montanaflynn/stats"

	"mtmatrix/config"
	db "mtmatrix/debug"
	"mtmatrix/telemetry"
)

// statsSummary logs mean/median/max of per-worker user time and
// switch counts. Records that don't parse (lookup misses echo the
// request back) are skipped.
func (c *Coord) statsSummary(recs []string) {
	if !config.Conf.Stats.ENABLED || len(recs) == 0 {
		return
	}
	times := make([]float64, 0, len(recs))
	switches := make([]float64, 0, len(recs))
	for _, s := range recs {
		r, err := telemetry.ParseRecord(s)
		if err != nil {
			db.DPrintf(db.STAT, "skip unparsed record %q", s)
			continue
		}
		times = append(times, float64(r.UserTimeMs))
		switches = append(switches, float64(r.CtxSwitches))
	}
	if len(times) == 0 {
		return
	}
	tmean, err := stats.Mean(times)
	if err != nil {
		db.DFatalf("Error calculating mean: %v", err)
	}
	tmedian, err := stats.Percentile(times, 50)
	if err != nil {
		db.DFatalf("Error calculating percentile 50: %v", err)
	}
	tmax, err := stats.Max(times)
	if err != nil {
		db.DFatalf("Error calculating max: %v", err)
	}
	smean, err := stats.Mean(switches)
	if err != nil {
		db.DFatalf("Error calculating mean: %v", err)
	}
	smax, err := stats.Max(switches)
	if err != nil {
		db.DFatalf("Error calculating max: %v", err)
	}
	db.DPrintf(db.STAT,
		"workers %d: time ms mean %.1f median %.1f max %.1f; ctx switches mean %.1f max %.1f",
		len(times), tmean, tmedian, tmax, smean, smax)
}
