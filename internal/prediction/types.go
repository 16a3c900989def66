// Package prediction implements the multi-fidelity bioreactor performance
// model. Predict is a pure function of the catalog constants and the input
// parameters; results are memoized in a TTL cache keyed by the full input.
package prediction

import "fmt"

// Fidelity selects how much physical detail a prediction carries.
// Each level's output is a strict superset of the level below it.
type Fidelity int

const (
	Basic Fidelity = iota
	Intermediate
	Advanced
)

// String returns a human-readable name for the fidelity level.
func (f Fidelity) String() string {
	switch f {
	case Basic:
		return "basic"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return fmt.Sprintf("fidelity(%d)", int(f))
	}
}

// Parameters is the required operating point of a bioreactor.
// Units: degC, pH, mL/min, rpm, mV, g/L.
type Parameters struct {
	Temperature            float64
	PH                     float64
	FlowRate               float64
	MixingSpeed            float64
	ElectrodeVoltage       float64
	SubstrateConcentration float64
}

// Extensions carries the optional operating parameters. Nil fields were not
// supplied by the caller and fall back to engine defaults where a formula
// needs them. Units: atm, mg/L dissolved oxygen, g/L salinity.
type Extensions struct {
	Pressure    *float64
	OxygenLevel *float64
	Salinity    *float64
}

// Input is one prediction request.
type Input struct {
	DeviceID   string
	Parameters Parameters
	Extensions Extensions
	Fidelity   Fidelity
}

// OperationalStatus classifies how close the operating point sits to the
// catalog optimum.
type OperationalStatus int

const (
	// StatusOptimal means temperature and pH are both within the catalog
	// tolerance band around their optima.
	StatusOptimal OperationalStatus = iota
	// StatusGood means both are inside their operating ranges.
	StatusGood
	// StatusWarning means only one of the two is inside its range.
	StatusWarning
	// StatusCritical means neither is inside its range.
	StatusCritical
)

// String returns a human-readable name for the status.
func (s OperationalStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusGood:
		return "good"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is a prediction at some fidelity. The basic fields are always set;
// Intermediate and Advanced are populated only at their levels and above,
// and a higher level recomputes the lower-level fields identically.
type Result struct {
	// PowerDensity in mW/m^2 of electrode area.
	PowerDensity float64
	// CurrentDensity in mA/m^2.
	CurrentDensity float64
	// Efficiency is the coulombic efficiency in percent, in [0, 100].
	Efficiency float64
	// Status classifies the operating point.
	Status OperationalStatus
	// Confidence in percent. Starts from the catalog tier, loses 20% per
	// out-of-range parameter, gains a small bonus per fidelity level.
	Confidence float64
	// Warnings lists rule-based diagnostics for this operating point.
	Warnings []string

	Intermediate *IntermediateResult
	Advanced     *AdvancedResult
}

// IntermediateResult adds derived engineering quantities to a basic result.
type IntermediateResult struct {
	Thermal      ThermalProfile
	MassTransfer MassTransfer
	Biofilm      BiofilmDynamics
	Economics    Economics
}

// ThermalProfile estimates the temperature field inside the reactor.
type ThermalProfile struct {
	AverageTemp float64 // degC
	HotSpotTemp float64 // degC
	CoolingRate float64 // degC/min available from the feed stream
}

// MassTransfer summarizes transport of oxygen, substrate and protons.
type MassTransfer struct {
	OxygenTransferRate   float64 // mg/L/h
	SubstrateUtilization float64 // percent of feed consumed
	ProtonFlux           float64 // mol/(m^2 s), from Faraday's law
}

// BiofilmDynamics estimates the anodic biofilm state.
type BiofilmDynamics struct {
	Thickness float64 // um
	Viability float64 // percent
	Adhesion  float64 // percent
}

// Economics estimates running costs at this operating point.
type Economics struct {
	OperatingCost     float64 // USD/day
	MaintenanceCost   float64 // USD/day
	EfficiencyPerCost float64 // efficiency points per USD/day
}

// AdvancedResult adds detailed electrochemistry, hydrodynamics and
// microbiology, plus a descriptive advisory block.
type AdvancedResult struct {
	Electrochemistry Electrochemistry
	FluidDynamics    FluidDynamics
	Microbiology     Microbiology
	Advisory         Advisory
}

// Electrochemistry carries the Butler-Volmer derived loss breakdown.
type Electrochemistry struct {
	ActivationOverpotential    float64 // V
	ConcentrationOverpotential float64 // V
	OhmicOverpotential         float64 // V
	MembraneOverpotential      float64 // V, zero for membrane-less designs
	// CurrentDistribution is the per-position current density along the
	// electrode, normalized so its mean equals CurrentDensity.
	CurrentDistribution    []float64
	ExchangeCurrentDensity float64 // A/m^2, biofilm-enhanced
	TafelSlope             float64 // V/decade
	LimitingCurrentDensity float64 // A/m^2

	MassTransferLimited bool
	ActivationLimited   bool
	OhmicLimited        bool
}

// FluidDynamics carries the discretized flow field estimates.
type FluidDynamics struct {
	// VelocityProfile is the axial velocity at ten radial positions from
	// the centerline to the wall, in m/s.
	VelocityProfile     []float64
	ReynoldsNumber      float64
	TurbulenceIntensity float64 // fraction
	MixingEfficiency    float64 // percent
	MassTransferCoeff   float64 // m/s
	DeadZoneFraction    float64 // fraction of volume
	// ResidenceTimeDist is the tanks-in-series E(theta) curve sampled at
	// ten normalized times.
	ResidenceTimeDist []float64
	TanksInSeries     int
}

// Microbiology carries the community-level biology estimates.
type Microbiology struct {
	GrowthRate        float64 // 1/h
	MetabolicActivity float64 // percent of maximum
	// SpeciesAbundance maps species to relative abundance summing to 1.
	SpeciesAbundance map[string]float64
	// ViabilityProfile is viability at ten depths through the biofilm,
	// outer surface first, in percent.
	ViabilityProfile []float64
}

// Advisory is the rule-based descriptive guidance block. It is distinct
// from the numerical optimization engine.
type Advisory struct {
	Recommendations []string
	// SensitivityRanking orders parameter names from most to least
	// influential on power density at this operating point.
	SensitivityRanking []string
	// OperatingEnvelopes gives, per parameter, the sub-interval of the
	// catalog range where power density stays within 95% of its best
	// value over that range.
	OperatingEnvelopes map[string][2]float64
}
