package optimization

import (
	"fmt"
	"math"

	"github.com/samfrons/Messai.io-sub005/internal/metrics"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

// Analytic estimator constants. Used when the oracle does not report cost,
// and always for durability.
const (
	baseDailyCost        = 10.0    // USD/day
	ambientTemperature   = 20.0    // degC
	nominalLifetimeHours = 20000.0 // hours
)

// EvalContext carries the logic shared by every algorithm: scalarization
// of the objective, analytic cost/durability estimators, clamping into the
// constraint box, and final-candidate constraint checking. It is a value,
// passed into each algorithm rather than inherited.
type EvalContext struct {
	Objective   Objective
	Constraints Constraints
	Oracle      Oracle
	Metrics     *metrics.Metrics
}

// Score evaluates the oracle at p and scalarizes the outcome into one
// value to minimize. Oracle failures propagate and abort the run.
func (ec *EvalContext) Score(p prediction.Parameters) (float64, error) {
	if ec.Metrics != nil {
		ec.Metrics.OracleEvals.Inc()
	}
	ev, err := ec.Oracle(p)
	if err != nil {
		return 0, WrapError(err, "oracle evaluation failed")
	}
	return ec.scalarize(p, ev), nil
}

// scalarize converts all objective kinds to a single minimized scalar.
func (ec *EvalContext) scalarize(p prediction.Parameters, ev Evaluation) float64 {
	cost := ev.Cost
	if !ev.HasCost {
		cost = EstimateCost(p)
	}

	switch ec.Objective.Kind {
	case MaximizePower:
		return -ev.Power
	case MaximizeEfficiency:
		return -ev.Efficiency
	case MinimizeCost:
		return cost
	case MaximizeDurability:
		return -EstimateDurability(p)
	case MultiObjective:
		w := ec.Objective.Weights.Normalize()
		// Normalize each axis to a comparable unit scale.
		return -(w.Power*ev.Power/1000.0 + w.Efficiency*ev.Efficiency/100.0) +
			w.Cost*cost/100.0
	default:
		return -ev.Power
	}
}

// EstimateCost is the analytic daily-cost model: base plus heating from
// ambient, mixing energy, electrode power draw, and throughput-driven
// material cost.
func EstimateCost(p prediction.Parameters) float64 {
	heating := math.Abs(p.Temperature-ambientTemperature) * 0.08
	mixing := math.Pow(p.MixingSpeed/100.0, 2) * 0.5
	powerDraw := (p.ElectrodeVoltage / 1000.0) * 2.0
	material := (p.FlowRate / 100.0) * p.SubstrateConcentration * 0.2
	return baseDailyCost + heating + mixing + powerDraw + material
}

// EstimateDurability is the analytic lifetime model: nominal life-hours
// decayed by temperature deviation, pH deviation, and voltage/mixing
// stress.
func EstimateDurability(p prediction.Parameters) float64 {
	stress := math.Abs(p.Temperature-30.0)*0.01 +
		math.Abs(p.PH-7.0)*0.05 +
		(p.ElectrodeVoltage/1000.0)*0.3 +
		(p.MixingSpeed/1000.0)*0.2
	return nominalLifetimeHours / (1.0 + stress)
}

// ClampToBox projects p onto the constraint box. Intermediate search
// steps are clamped, not hard-barrier-constrained.
func (ec *EvalContext) ClampToBox(p prediction.Parameters) prediction.Parameters {
	c := ec.Constraints
	p.Temperature = clamp(p.Temperature, c.Temperature)
	p.PH = clamp(p.PH, c.PH)
	p.FlowRate = clamp(p.FlowRate, c.FlowRate)
	p.MixingSpeed = clamp(p.MixingSpeed, c.MixingSpeed)
	p.ElectrodeVoltage = clamp(p.ElectrodeVoltage, c.ElectrodeVoltage)
	p.SubstrateConcentration = clamp(p.SubstrateConcentration, c.SubstrateConcentration)
	return p
}

func clamp(v float64, iv Interval) float64 {
	return math.Max(iv.Min, math.Min(v, iv.Max))
}

// CheckFinal validates the final candidate against the constraint box and
// the optional targets. It returns one violation string per failed check;
// sitting exactly on a bound is legal.
func (ec *EvalContext) CheckFinal(p prediction.Parameters, ev Evaluation) []string {
	var v []string
	c := ec.Constraints

	checks := []struct {
		name string
		iv   Interval
		val  float64
	}{
		{"temperature", c.Temperature, p.Temperature},
		{"ph", c.PH, p.PH},
		{"flowRate", c.FlowRate, p.FlowRate},
		{"mixingSpeed", c.MixingSpeed, p.MixingSpeed},
		{"electrodeVoltage", c.ElectrodeVoltage, p.ElectrodeVoltage},
		{"substrateConcentration", c.SubstrateConcentration, p.SubstrateConcentration},
	}
	for _, ch := range checks {
		if !ch.iv.Contains(ch.val) {
			v = append(v, fmt.Sprintf("%s %.4g outside constraint [%.4g, %.4g]",
				ch.name, ch.val, ch.iv.Min, ch.iv.Max))
		}
	}

	cost := ev.Cost
	if !ev.HasCost {
		cost = EstimateCost(p)
	}
	t := ec.Objective.Targets
	if t.MaxCost != nil && cost > *t.MaxCost {
		v = append(v, fmt.Sprintf("cost %.4g exceeds target %.4g", cost, *t.MaxCost))
	}
	if t.MinPowerDensity != nil && ev.Power < *t.MinPowerDensity {
		v = append(v, fmt.Sprintf("power density %.4g below target %.4g", ev.Power, *t.MinPowerDensity))
	}
	if t.MinEfficiency != nil && ev.Efficiency < *t.MinEfficiency {
		v = append(v, fmt.Sprintf("efficiency %.4g below target %.4g", ev.Efficiency, *t.MinEfficiency))
	}
	if c.MaxMaterialCost != nil && cost > *c.MaxMaterialCost {
		v = append(v, fmt.Sprintf("cost %.4g exceeds material cost bound %.4g", cost, *c.MaxMaterialCost))
	}
	return v
}

// Finalize evaluates the final candidate once more for reporting: it
// returns the violations and the raw evaluation at p.
func (ec *EvalContext) Finalize(p prediction.Parameters) ([]string, Evaluation, error) {
	ev, err := ec.Oracle(p)
	if err != nil {
		return nil, Evaluation{}, WrapError(err, "final candidate evaluation failed")
	}
	return ec.CheckFinal(p, ev), ev, nil
}

// Dimension order used by the vector form of the search space.
const NumParams = 6

// ParamNames lists the searchable parameters in vector order.
var ParamNames = [NumParams]string{
	"temperature", "ph", "flowRate", "mixingSpeed", "electrodeVoltage", "substrateConcentration",
}

// ToVector maps parameters into the fixed vector order.
func ToVector(p prediction.Parameters) []float64 {
	return []float64{
		p.Temperature, p.PH, p.FlowRate,
		p.MixingSpeed, p.ElectrodeVoltage, p.SubstrateConcentration,
	}
}

// FromVector maps a vector back into a parameter record.
func FromVector(x []float64) prediction.Parameters {
	return prediction.Parameters{
		Temperature:            x[0],
		PH:                     x[1],
		FlowRate:               x[2],
		MixingSpeed:            x[3],
		ElectrodeVoltage:       x[4],
		SubstrateConcentration: x[5],
	}
}

// Bounds returns the constraint box in vector order as [min, max] pairs.
func (ec *EvalContext) Bounds() [][2]float64 {
	c := ec.Constraints
	return [][2]float64{
		{c.Temperature.Min, c.Temperature.Max},
		{c.PH.Min, c.PH.Max},
		{c.FlowRate.Min, c.FlowRate.Max},
		{c.MixingSpeed.Min, c.MixingSpeed.Max},
		{c.ElectrodeVoltage.Min, c.ElectrodeVoltage.Max},
		{c.SubstrateConcentration.Min, c.SubstrateConcentration.Max},
	}
}

// Intervals returns the constraint box in vector order as Intervals.
func (ec *EvalContext) Intervals() [NumParams]Interval {
	c := ec.Constraints
	return [NumParams]Interval{
		c.Temperature, c.PH, c.FlowRate,
		c.MixingSpeed, c.ElectrodeVoltage, c.SubstrateConcentration,
	}
}

// ScoreVector is Score on the vector form, clamped into the box first.
func (ec *EvalContext) ScoreVector(x []float64) (float64, error) {
	return ec.Score(ec.ClampToBox(FromVector(x)))
}
