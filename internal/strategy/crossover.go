package strategy

import (
	"fmt"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

var crossPairs = []struct {
	short, long   int
	golden, death model.SignalType
	severity      model.Severity
	prefix        string
}{
	{20, 50, model.SignalGoldenCross20x50, model.SignalDeathCross20x50, model.SeverityWarning, ""},
	{50, 200, model.SignalGoldenCross50x200, model.SignalDeathCross50x200, model.SeverityAlert, "MAJOR "},
}

// MACrossovers reports golden and death crosses of the 20/50 and 50/200
// moving averages between the last two bars.
func (d *Detector) MACrossovers(f *calculator.Frame, commodity string) []model.Signal {
	var out []model.Signal
	for _, p := range crossPairs {
		short, long := calculator.ColMA(p.short), calculator.ColMA(p.long)
		switch crossDirection(f, short, long) {
		case 1:
			out = append(out, newSignal(f, commodity, p.golden, p.severity,
				fmt.Sprintf("%s %sgolden cross (%d-day MA crossed above %d-day MA)", commodity, p.prefix, p.short, p.long), 0))
		case -1:
			out = append(out, newSignal(f, commodity, p.death, p.severity,
				fmt.Sprintf("%s %sdeath cross (%d-day MA crossed below %d-day MA)", commodity, p.prefix, p.short, p.long), 0))
		}
	}
	return out
}
