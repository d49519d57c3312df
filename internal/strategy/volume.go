package strategy

import (
	"fmt"
	"math"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// VolumeSpike reports the latest volume at or above VolumeSpikeRatio times
// the mean of the preceding VolumeLookback bars. Bars without volume are
// left out of the mean.
func (d *Detector) VolumeSpike(f *calculator.Frame, commodity string) []model.Signal {
	lookback := d.Thresholds.VolumeLookback
	n := f.Len()
	if lookback <= 0 || n < lookback+1 {
		return nil
	}
	volumes := f.Volumes()
	today := volumes[n-1]
	if math.IsNaN(today) {
		return nil
	}
	var sum float64
	var count int
	for _, v := range volumes[n-1-lookback : n-1] {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 || sum == 0 {
		return nil
	}
	ratio := today / (sum / float64(count))
	if ratio < d.Thresholds.VolumeSpikeRatio {
		return nil
	}
	return []model.Signal{newSignal(f, commodity, model.SignalVolumeSpike, model.SeverityInfo,
		fmt.Sprintf("%s volume spike (%.1fx normal)", commodity, ratio), ratio)}
}
