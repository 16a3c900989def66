package prediction

import (
	"fmt"
	"math"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
)

// Physical constants.
const (
	gasConstant     = 8.314  // J/(mol K)
	faradayConstant = 96485  // C/mol
	waterDensity    = 998.0  // kg/m^3
	waterViscosity  = 1.0e-3 // Pa s
	kelvinOffset    = 273.15
)

// Model tuning constants. These are reference scales, not per-device data.
const (
	electrodeActivityRef = 1.0    // A/m^2 equivalent activity at factor 0.5
	massTransferCoefRef  = 5.0e-6 // m/s at factor 0.5
	ohmicResistanceRef   = 20.0   // ohm at attenuation 0.5
	voltageCoupling      = 0.25   // V of cell voltage per V applied
	oxygenSaturationRef  = 8.0    // mg/L at 1 atm, fresh water
	epsilon              = 1e-9

	defaultPressure = 1.0 // atm
	defaultOxygen   = 2.0 // mg/L
	defaultSalinity = 0.0 // g/L
)

// Sane admissibility windows for the optional extension parameters. The
// catalog does not carry these, they are properties of the model itself.
var (
	pressureWindow = catalog.Range{Min: 0.5, Max: 2.0}
	oxygenWindow   = catalog.Range{Min: 0.0, Max: 15.0}
	salinityWindow = catalog.Range{Min: 0.0, Max: 35.0}
)

// factors holds the dimensionless multipliers the basic model composes.
// Intermediate and advanced levels reuse them so shared fields stay
// identical across fidelities.
type factors struct {
	temperature  float64
	ph           float64
	substrate    float64
	electrode    float64
	massTransfer float64
	ohmic        float64
	deviceType   float64
	scale        float64

	// Side products needed by higher fidelities.
	reynolds           float64
	massTransferCoeff  float64
	internalResistance float64
	growth             float64 // Gaussian temp*pH growth factor
	cellVoltage        float64 // V
}

// computeFactors evaluates every physical multiplier at the given operating
// point. Pure; all state comes from the device record and the input.
func computeFactors(dev *catalog.Device, p Parameters, ext Extensions) factors {
	var f factors

	f.temperature = arrheniusFactor(dev, p.Temperature)
	f.ph = gaussianFactor(p.PH, dev.PHOptimum, dev.BufferCapacity)
	f.substrate = monodFactor(dev, p.SubstrateConcentration)
	f.electrode = electrodeFactor(dev)

	f.reynolds = reynoldsNumber(dev, p)
	f.massTransferCoeff = massTransferCoefficient(dev, f.reynolds)
	f.massTransfer = f.massTransferCoeff / (f.massTransferCoeff + massTransferCoefRef)

	f.internalResistance = internalResistance(dev, ext)
	f.ohmic = 1.0 / (1.0 + f.internalResistance/ohmicResistanceRef)

	f.deviceType = deviceTypeFactor(dev, p)
	f.scale = scaleFactor(dev.Scale)

	// Growth factor shared by efficiency and biofilm viability. Wider than
	// the tolerance band so it degrades smoothly, not as a step.
	tempGauss := gaussianFactor(p.Temperature, dev.TempOptimum, 2.0*dev.TempTolerance)
	f.growth = tempGauss * gaussianFactor(p.PH, dev.PHOptimum, 2.0*dev.PHTolerance)

	f.cellVoltage = dev.NominalCellVoltage + (p.ElectrodeVoltage/1000.0)*voltageCoupling

	return f
}

// arrheniusFactor is the activation-energy temperature response referenced
// to the catalog optimum. It peaks at 1 there and decays on both sides.
func arrheniusFactor(dev *catalog.Device, tempC float64) float64 {
	tK := tempC + kelvinOffset
	tOptK := dev.TempOptimum + kelvinOffset
	if tK < 1 {
		tK = 1
	}
	return math.Exp(-(dev.ActivationEnergy / gasConstant) * math.Abs(1.0/tK-1.0/tOptK))
}

// gaussianFactor is exp(-(v-opt)^2 / (2 sigma^2)) with a width floor.
func gaussianFactor(v, optimum, sigma float64) float64 {
	if sigma < epsilon {
		sigma = epsilon
	}
	d := v - optimum
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

// monodFactor is Monod kinetics with Haldane substrate inhibition.
func monodFactor(dev *catalog.Device, s float64) float64 {
	if s < 0 {
		s = 0
	}
	ki := dev.InhibitionConst
	if ki < epsilon {
		ki = epsilon
	}
	denom := dev.HalfSaturation + s + (s*s)/ki
	if denom < epsilon {
		return 0
	}
	return s / denom
}

// electrodeFactor folds material exchange current density, biofilm
// enhancement and surface roughness into a saturating multiplier.
func electrodeFactor(dev *catalog.Device) float64 {
	activity := dev.ExchangeCurrentDensity * dev.BiofilmEnhancement * dev.SurfaceRoughness
	return activity / (activity + electrodeActivityRef)
}

// reynoldsNumber combines feed flow and impeller motion into one effective
// channel Reynolds number.
func reynoldsNumber(dev *catalog.Device, p Parameters) float64 {
	l := dev.CharacteristicLength
	if l < epsilon {
		return 0
	}
	// Feed superficial velocity: mL/min through an L x L cross-section.
	q := p.FlowRate * 1e-6 / 60.0 // m^3/s
	vFlow := q / (l * l)
	// Impeller contribution: fraction of tip speed reaches the bulk.
	vMix := (p.MixingSpeed / 60.0) * math.Pi * l * 0.3
	v := vFlow + vMix
	return waterDensity * v * l / waterViscosity
}

// massTransferCoefficient applies the Sherwood correlation for the flow
// regime: laminar flat-plate below Re 2300, Dittus-Boelter style above.
func massTransferCoefficient(dev *catalog.Device, re float64) float64 {
	l := dev.CharacteristicLength
	if l < epsilon || dev.Diffusivity < epsilon {
		return 0
	}
	sc := waterViscosity / (waterDensity * dev.Diffusivity)
	var sh float64
	if re < 2300 {
		sh = 0.664 * math.Sqrt(math.Max(re, 0)) * math.Cbrt(sc)
	} else {
		sh = 0.023 * math.Pow(re, 0.8) * math.Cbrt(sc)
	}
	// Stagnant floor: diffusion alone gives Sh ~ 2 for a particle.
	if sh < 2 {
		sh = 2
	}
	return sh * dev.Diffusivity / l
}

// internalResistance estimates electrolyte ohmic resistance from geometry.
// Dissolved salts raise conductivity slightly.
func internalResistance(dev *catalog.Device, ext Extensions) float64 {
	sigma := dev.ElectrolyteConductivity * (1.0 + 0.02*extensionOr(ext.Salinity, defaultSalinity))
	areaM2 := dev.ElectrodeArea / 1e4
	spacingM := dev.ElectrodeSpacing / 100.0
	denom := sigma * areaM2
	if denom < epsilon {
		denom = epsilon
	}
	return spacingM / denom
}

// deviceTypeFactor is the architecture-specific multiplier.
func deviceTypeFactor(dev *catalog.Device, p Parameters) float64 {
	switch dev.Type {
	case catalog.MembraneMFC:
		// Membrane separation suppresses oxygen crossover.
		return 1.15
	case catalog.StirredTank:
		opt := math.Max(dev.MixingOptimum, 1)
		return 0.85 + 0.3*gaussianFactor(p.MixingSpeed, opt, opt/2)
	case catalog.Photobioreactor:
		// Light-driven cultures trade efficiency for heat sensitivity.
		excess := p.Temperature - dev.TempOptimum
		if excess > 0 {
			return math.Max(0.7, 1.05-0.04*excess)
		}
		return 1.05
	case catalog.Airlift:
		opt := math.Max(dev.FlowOptimum, 1)
		return 0.85 + 0.3*gaussianFactor(p.FlowRate, opt, opt/2)
	case catalog.FractalMFC:
		// Fractal geometry packs extra active surface per footprint.
		return 1.25
	default:
		return 1.0
	}
}

// scaleFactor accounts for losses when moving off the bench.
func scaleFactor(s catalog.Scale) float64 {
	switch s {
	case catalog.Pilot:
		return 0.85
	case catalog.Industrial:
		return 0.7
	default:
		return 1.0
	}
}

// computeBasic fills the basic-fidelity fields of a result.
func computeBasic(dev *catalog.Device, in Input, f factors) *Result {
	power := dev.MaxPowerDensity *
		f.temperature * f.ph * f.substrate * f.electrode *
		f.massTransfer * f.ohmic * f.deviceType * f.scale
	if power < 0 {
		power = 0
	}

	cellV := math.Max(f.cellVoltage, epsilon)
	current := power / cellV // mW/m^2 over V -> mA/m^2

	mixFactor := math.Min(1.0, 0.7+0.3*in.Parameters.MixingSpeed/math.Max(dev.MixingOptimum, 1))
	efficiency := dev.BaselineEfficiency * f.growth * mixFactor
	efficiency = math.Min(100, math.Max(0, efficiency))

	status := operationalStatus(dev, in.Parameters)
	outOfRange := outOfRangeCount(dev, in.Parameters, in.Extensions)
	confidence := dev.ConfidenceTier * math.Pow(0.8, float64(outOfRange))
	confidence += fidelityBonus(in.Fidelity)
	confidence = math.Min(100, math.Max(0, confidence))

	return &Result{
		PowerDensity:   power,
		CurrentDensity: current,
		Efficiency:     efficiency,
		Status:         status,
		Confidence:     confidence,
		Warnings:       diagnostics(dev, in.Parameters, in.Extensions, f),
	}
}

func fidelityBonus(f Fidelity) float64 {
	switch f {
	case Intermediate:
		return 3
	case Advanced:
		return 5
	default:
		return 0
	}
}

// operationalStatus classifies the temperature/pH operating point.
func operationalStatus(dev *catalog.Device, p Parameters) OperationalStatus {
	tempOpt := math.Abs(p.Temperature-dev.TempOptimum) <= dev.TempTolerance
	phOpt := math.Abs(p.PH-dev.PHOptimum) <= dev.PHTolerance
	if tempOpt && phOpt {
		return StatusOptimal
	}

	tempIn := dev.TempRange.Contains(p.Temperature)
	phIn := dev.PHRange.Contains(p.PH)
	switch {
	case tempIn && phIn:
		return StatusGood
	case tempIn || phIn:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// outOfRangeCount counts parameters outside their declared windows,
// including supplied extensions.
func outOfRangeCount(dev *catalog.Device, p Parameters, ext Extensions) int {
	n := 0
	checks := []struct {
		r catalog.Range
		v float64
	}{
		{dev.TempRange, p.Temperature},
		{dev.PHRange, p.PH},
		{dev.FlowRange, p.FlowRate},
		{dev.MixingRange, p.MixingSpeed},
		{dev.VoltageRange, p.ElectrodeVoltage},
		{dev.SubstrateRange, p.SubstrateConcentration},
	}
	for _, c := range checks {
		if !c.r.Contains(c.v) {
			n++
		}
	}
	if ext.Pressure != nil && !pressureWindow.Contains(*ext.Pressure) {
		n++
	}
	if ext.OxygenLevel != nil && !oxygenWindow.Contains(*ext.OxygenLevel) {
		n++
	}
	if ext.Salinity != nil && !salinityWindow.Contains(*ext.Salinity) {
		n++
	}
	return n
}

// diagnostics produces the rule-based warning list. Out-of-range inputs
// never reject a prediction, they only end up here.
func diagnostics(dev *catalog.Device, p Parameters, ext Extensions, f factors) []string {
	var w []string

	if !dev.TempRange.Contains(p.Temperature) {
		w = append(w, fmt.Sprintf("temperature %.1f degC outside operating range [%.1f, %.1f]",
			p.Temperature, dev.TempRange.Min, dev.TempRange.Max))
	}
	if !dev.PHRange.Contains(p.PH) {
		w = append(w, fmt.Sprintf("pH %.2f outside operating range [%.2f, %.2f]",
			p.PH, dev.PHRange.Min, dev.PHRange.Max))
	}
	if !dev.FlowRange.Contains(p.FlowRate) {
		w = append(w, fmt.Sprintf("flow rate %.1f mL/min outside operating range [%.1f, %.1f]",
			p.FlowRate, dev.FlowRange.Min, dev.FlowRange.Max))
	}
	if !dev.MixingRange.Contains(p.MixingSpeed) {
		w = append(w, fmt.Sprintf("mixing speed %.0f rpm outside operating range [%.0f, %.0f]",
			p.MixingSpeed, dev.MixingRange.Min, dev.MixingRange.Max))
	}
	if !dev.VoltageRange.Contains(p.ElectrodeVoltage) {
		w = append(w, fmt.Sprintf("electrode voltage %.0f mV outside operating range [%.0f, %.0f]",
			p.ElectrodeVoltage, dev.VoltageRange.Min, dev.VoltageRange.Max))
	}
	if !dev.SubstrateRange.Contains(p.SubstrateConcentration) {
		w = append(w, fmt.Sprintf("substrate %.2f g/L outside operating range [%.2f, %.2f]",
			p.SubstrateConcentration, dev.SubstrateRange.Min, dev.SubstrateRange.Max))
	}
	if ext.Pressure != nil && !pressureWindow.Contains(*ext.Pressure) {
		w = append(w, fmt.Sprintf("pressure %.2f atm outside model window [%.2f, %.2f]",
			*ext.Pressure, pressureWindow.Min, pressureWindow.Max))
	}
	if ext.OxygenLevel != nil && !oxygenWindow.Contains(*ext.OxygenLevel) {
		w = append(w, fmt.Sprintf("dissolved oxygen %.1f mg/L outside model window [%.1f, %.1f]",
			*ext.OxygenLevel, oxygenWindow.Min, oxygenWindow.Max))
	}
	if ext.Salinity != nil && !salinityWindow.Contains(*ext.Salinity) {
		w = append(w, fmt.Sprintf("salinity %.1f g/L outside model window [%.1f, %.1f]",
			*ext.Salinity, salinityWindow.Min, salinityWindow.Max))
	}

	// Architecture-specific cases.
	if dev.Type == catalog.MembraneMFC && math.Abs(p.PH-dev.PHOptimum) > dev.PHTolerance {
		w = append(w, "membrane designs are pH sensitive; drift past tolerance accelerates fouling")
	}
	if dev.Type == catalog.Photobioreactor && p.Temperature > dev.TempOptimum+dev.TempTolerance {
		w = append(w, "photobioreactor cultures degrade above optimal temperature; increase cooling")
	}
	if f.reynolds < 100 {
		w = append(w, fmt.Sprintf("low Reynolds number (%.0f); mass transfer may limit performance", f.reynolds))
	}

	return w
}

// extensionOr returns *v or the fallback when v is nil.
func extensionOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
