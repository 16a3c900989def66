package prediction

import (
	"fmt"
	"math"
	"sort"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
)

const (
	profilePoints       = 10
	chargeTransferAlpha = 0.5
	electronsPerMole    = 8 // acetate oxidation
)

// computeAdvanced derives the detailed physics blocks from the basic result
// and the shared factor set.
func computeAdvanced(dev *catalog.Device, in Input, f factors, basic *Result) *AdvancedResult {
	return &AdvancedResult{
		Electrochemistry: electrochemistry(dev, in.Parameters, f, basic),
		FluidDynamics:    fluidDynamics(dev, in.Parameters, f),
		Microbiology:     microbiology(dev, in.Parameters, f),
		Advisory:         advisory(dev, in, f, basic),
	}
}

// electrochemistry breaks the cell losses into Butler-Volmer activation,
// concentration, ohmic and membrane overpotentials.
func electrochemistry(dev *catalog.Device, p Parameters, f factors, basic *Result) Electrochemistry {
	tK := p.Temperature + kelvinOffset
	j := basic.CurrentDensity / 1000.0 // A/m^2
	j0 := dev.ExchangeCurrentDensity * dev.BiofilmEnhancement
	if j0 < epsilon {
		j0 = epsilon
	}

	// Inverse Butler-Volmer for symmetric charge transfer.
	thermal := gasConstant * tK / (chargeTransferAlpha * faradayConstant)
	etaAct := thermal * math.Asinh(j/(2*j0))

	// Limiting current from film mass transfer at the bulk concentration.
	cBulk := p.SubstrateConcentration * 1000.0 / 180.0 // mol/m^3, glucose basis
	jLim := float64(electronsPerMole) * faradayConstant * f.massTransferCoeff * cBulk
	if jLim < epsilon {
		jLim = epsilon
	}
	ratio := math.Min(j/jLim, 0.99)
	etaConc := (gasConstant * tK / (float64(electronsPerMole) * faradayConstant)) *
		math.Log(1.0/(1.0-ratio))

	// Area-specific ohmic drop.
	areaM2 := dev.ElectrodeArea / 1e4
	etaOhm := j * f.internalResistance * areaM2

	etaMem := 0.0
	if dev.Type == catalog.MembraneMFC {
		etaMem = 0.02 + 0.01*math.Abs(p.PH-dev.PHOptimum)
	}

	// Edge-crowded current distribution, normalized to mean j.
	dist := make([]float64, profilePoints)
	sum := 0.0
	for i := range dist {
		x := float64(i) / float64(profilePoints-1)
		dist[i] = 0.8 + 0.4*math.Exp(-3.0*x)
		sum += dist[i]
	}
	for i := range dist {
		dist[i] = basic.CurrentDensity * dist[i] * float64(profilePoints) / sum
	}

	tafel := 2.303 * thermal

	return Electrochemistry{
		ActivationOverpotential:    etaAct,
		ConcentrationOverpotential: etaConc,
		OhmicOverpotential:         etaOhm,
		MembraneOverpotential:      etaMem,
		CurrentDistribution:        dist,
		ExchangeCurrentDensity:     j0,
		TafelSlope:                 tafel,
		LimitingCurrentDensity:     jLim,
		MassTransferLimited:        ratio > 0.8 || (etaConc >= etaAct && etaConc >= etaOhm),
		ActivationLimited:          etaAct > etaConc && etaAct > etaOhm,
		OhmicLimited:               etaOhm > etaAct && etaOhm > etaConc,
	}
}

// fluidDynamics discretizes the velocity field and estimates mixing quality
// and the tanks-in-series residence time distribution.
func fluidDynamics(dev *catalog.Device, p Parameters, f factors) FluidDynamics {
	re := f.reynolds
	l := math.Max(dev.CharacteristicLength, epsilon)
	vBar := re * waterViscosity / (waterDensity * l)

	profile := make([]float64, profilePoints)
	for i := range profile {
		r := float64(i) / float64(profilePoints-1) // 0 centerline, 1 wall
		if re < 2300 {
			// Hagen-Poiseuille parabola.
			profile[i] = 2.0 * vBar * (1.0 - r*r)
		} else {
			// 1/7th power law.
			profile[i] = vBar * 8.0 / 7.0 * math.Pow(1.0-r+epsilon, 1.0/7.0)
		}
	}

	turbulence := 0.05
	if re > 2300 {
		turbulence = 0.16 * math.Pow(re, -1.0/8.0)
	}

	dead := math.Max(0, 0.30-0.25*f.massTransfer-0.05*math.Min(p.MixingSpeed/300.0, 1))
	mixingEff := (1.0 - dead) * 100.0

	// Tanks-in-series: more inertia, closer to plug flow.
	n := 1 + int(re/500.0)
	if n > 20 {
		n = 20
	}
	rtd := make([]float64, profilePoints)
	for i := range rtd {
		theta := 0.2 + 1.8*float64(i)/float64(profilePoints-1)
		rtd[i] = tanksInSeriesE(n, theta)
	}

	return FluidDynamics{
		VelocityProfile:     profile,
		ReynoldsNumber:      re,
		TurbulenceIntensity: turbulence,
		MixingEfficiency:    mixingEff,
		MassTransferCoeff:   f.massTransferCoeff,
		DeadZoneFraction:    dead,
		ResidenceTimeDist:   rtd,
		TanksInSeries:       n,
	}
}

// tanksInSeriesE evaluates the N-tank RTD density at normalized time theta.
func tanksInSeriesE(n int, theta float64) float64 {
	nf := float64(n)
	logE := math.Log(nf) + (nf-1)*math.Log(nf*theta) - nf*theta - logFactorial(n-1)
	return math.Exp(logE)
}

func logFactorial(n int) float64 {
	s := 0.0
	for i := 2; i <= n; i++ {
		s += math.Log(float64(i))
	}
	return s
}

// microbiology estimates community composition and activity.
func microbiology(dev *catalog.Device, p Parameters, f factors) Microbiology {
	growthRate := dev.MaxGrowthRate * f.temperature * f.ph * f.substrate
	activity := math.Min(100, f.growth*f.electrode*140.0)

	// Electroactive genera are favored by anode potential, fermenters by
	// substrate excess. Normalized to 1.
	geobacter := 0.30 + 0.40*f.electrode + 0.10*math.Min(p.ElectrodeVoltage/200.0, 1)
	shewanella := 0.15 + 0.15*f.massTransfer
	fermenters := 0.20 + 0.20*math.Min(p.SubstrateConcentration/5.0, 1)
	total := geobacter + shewanella + fermenters
	abundance := map[string]float64{
		"geobacter":  geobacter / total,
		"shewanella": shewanella / total,
		"fermenters": fermenters / total,
	}

	// Viability decays with depth as substrate and proton gradients build.
	viability := make([]float64, profilePoints)
	for i := range viability {
		depth := float64(i) / float64(profilePoints-1)
		viability[i] = f.growth * 100.0 * math.Exp(-1.2*depth*(1.0-0.5*f.massTransfer))
	}

	return Microbiology{
		GrowthRate:        growthRate,
		MetabolicActivity: activity,
		SpeciesAbundance:  abundance,
		ViabilityProfile:  viability,
	}
}

// powerDensityAt recomputes the basic power density at a perturbed
// operating point. Used by the advisory sweeps only.
func powerDensityAt(dev *catalog.Device, p Parameters, ext Extensions) float64 {
	f := computeFactors(dev, p, ext)
	power := dev.MaxPowerDensity *
		f.temperature * f.ph * f.substrate * f.electrode *
		f.massTransfer * f.ohmic * f.deviceType * f.scale
	if power < 0 {
		power = 0
	}
	return power
}

// advisoryParam describes one sweepable parameter for the advisory block.
type advisoryParam struct {
	name  string
	r     catalog.Range
	get   func(Parameters) float64
	apply func(Parameters, float64) Parameters
}

func advisoryParams(dev *catalog.Device) []advisoryParam {
	return []advisoryParam{
		{"temperature", dev.TempRange,
			func(p Parameters) float64 { return p.Temperature },
			func(p Parameters, v float64) Parameters { p.Temperature = v; return p }},
		{"ph", dev.PHRange,
			func(p Parameters) float64 { return p.PH },
			func(p Parameters, v float64) Parameters { p.PH = v; return p }},
		{"flowRate", dev.FlowRange,
			func(p Parameters) float64 { return p.FlowRate },
			func(p Parameters, v float64) Parameters { p.FlowRate = v; return p }},
		{"mixingSpeed", dev.MixingRange,
			func(p Parameters) float64 { return p.MixingSpeed },
			func(p Parameters, v float64) Parameters { p.MixingSpeed = v; return p }},
		{"electrodeVoltage", dev.VoltageRange,
			func(p Parameters) float64 { return p.ElectrodeVoltage },
			func(p Parameters, v float64) Parameters { p.ElectrodeVoltage = v; return p }},
		{"substrateConcentration", dev.SubstrateRange,
			func(p Parameters) float64 { return p.SubstrateConcentration },
			func(p Parameters, v float64) Parameters { p.SubstrateConcentration = v; return p }},
	}
}

// advisory builds the descriptive guidance block: recommendations,
// a sensitivity ranking, and the 95%-of-best operating envelopes.
func advisory(dev *catalog.Device, in Input, f factors, basic *Result) Advisory {
	p := in.Parameters
	var recs []string

	if p.Temperature < dev.TempOptimum-dev.TempTolerance {
		recs = append(recs, fmt.Sprintf("raise temperature toward %.1f degC", dev.TempOptimum))
	} else if p.Temperature > dev.TempOptimum+dev.TempTolerance {
		recs = append(recs, fmt.Sprintf("lower temperature toward %.1f degC", dev.TempOptimum))
	}
	if math.Abs(p.PH-dev.PHOptimum) > dev.PHTolerance {
		recs = append(recs, fmt.Sprintf("adjust pH toward %.1f", dev.PHOptimum))
	}
	if f.substrate < 0.5 {
		recs = append(recs, "substrate kinetics are limiting; review feed concentration")
	}
	if f.massTransfer < 0.4 {
		recs = append(recs, "increase flow or mixing to relieve the mass-transfer limitation")
	}
	if f.ohmic < 0.6 {
		recs = append(recs, "internal resistance is high; reduce electrode spacing or raise conductivity")
	}
	if len(recs) == 0 {
		recs = append(recs, "operating point is near optimal; no changes recommended")
	}

	params := advisoryParams(dev)

	// Local sensitivity: relative power change for a 1% parameter step.
	type sens struct {
		name  string
		score float64
	}
	base := basic.PowerDensity
	scores := make([]sens, 0, len(params))
	for _, ap := range params {
		v := ap.get(p)
		step := 0.01 * (ap.r.Max - ap.r.Min)
		perturbed := powerDensityAt(dev, ap.apply(p, v+step), in.Extensions)
		score := math.Abs(perturbed - base)
		scores = append(scores, sens{ap.name, score})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	ranking := make([]string, len(scores))
	for i, s := range scores {
		ranking[i] = s.name
	}

	// Operating envelopes: sweep each range, keep the band within 95% of
	// the best value seen on that sweep.
	const sweepSteps = 20
	envelopes := make(map[string][2]float64, len(params))
	for _, ap := range params {
		best := 0.0
		values := make([]float64, sweepSteps+1)
		for i := 0; i <= sweepSteps; i++ {
			v := ap.r.Min + (ap.r.Max-ap.r.Min)*float64(i)/sweepSteps
			values[i] = powerDensityAt(dev, ap.apply(p, v), in.Extensions)
			if values[i] > best {
				best = values[i]
			}
		}
		lo, hi := ap.r.Max, ap.r.Min
		for i := 0; i <= sweepSteps; i++ {
			if values[i] >= 0.95*best {
				v := ap.r.Min + (ap.r.Max-ap.r.Min)*float64(i)/sweepSteps
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}
		envelopes[ap.name] = [2]float64{lo, hi}
	}

	return Advisory{
		Recommendations:    recs,
		SensitivityRanking: ranking,
		OperatingEnvelopes: envelopes,
	}
}
