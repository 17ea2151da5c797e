package catalog

import (
	"fmt"
	"strings"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// ApySeries extracts the APY history of one pool and asset across stored
// catalog snapshots, oldest first. Snapshots where the pool is absent are
// skipped so gaps in coverage don't zero out the trend.
func ApySeries(snapshots [][]domain.PoolRecord, key domain.PoolKey, asset string) []float64 {
	var series []float64
	for _, snapshot := range snapshots {
		for _, record := range snapshot {
			if record.Key() == key && strings.EqualFold(record.Asset, asset) {
				series = append(series, record.APY)
				break
			}
		}
	}
	return series
}

// SmoothedApy computes the SMA of an APY series and returns its latest
// value. Needs at least period data points.
func SmoothedApy(series []float64, period int) (float64, error) {
	if period < 1 {
		period = 3
	}
	if len(series) < period {
		return 0, fmt.Errorf("not enough data points: need %d, got %d", period, len(series))
	}

	sma := trend.NewSmaWithPeriod[float64](period)

	inputChan := helper.SliceToChan(series)
	outputChan := sma.Compute(inputChan)
	smoothed := helper.ChanToSlice(outputChan)

	if len(smoothed) == 0 {
		return 0, fmt.Errorf("sma produced no values for %d points", len(series))
	}
	return smoothed[len(smoothed)-1], nil
}
