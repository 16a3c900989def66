package prediction

import (
	"math"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
)

// computeIntermediate derives the engineering quantities from an already
// computed basic result. Nothing here mutates the basic fields.
func computeIntermediate(dev *catalog.Device, in Input, f factors, basic *Result) *IntermediateResult {
	return &IntermediateResult{
		Thermal:      thermalProfile(in.Parameters, basic),
		MassTransfer: massTransfer(dev, in, f, basic),
		Biofilm:      biofilmDynamics(dev, in.Parameters, f),
		Economics:    economics(dev, in.Parameters, basic),
	}
}

// thermalProfile estimates metabolic self-heating and the cooling capacity
// of the feed stream.
func thermalProfile(p Parameters, basic *Result) ThermalProfile {
	// Metabolic heat scales with delivered power; mixing flattens gradients.
	heating := basic.PowerDensity / 1000.0 * 0.2
	relief := 1.0 + p.MixingSpeed/300.0
	return ThermalProfile{
		AverageTemp: p.Temperature + 0.5*heating,
		HotSpotTemp: p.Temperature + 1.5*heating/relief,
		CoolingRate: p.FlowRate * 0.002,
	}
}

// massTransfer applies a driving-force model for oxygen and Faraday's law
// for the proton flux matching the predicted current.
func massTransfer(dev *catalog.Device, in Input, f factors, basic *Result) MassTransfer {
	pressure := extensionOr(in.Extensions.Pressure, defaultPressure)
	oxygen := extensionOr(in.Extensions.OxygenLevel, defaultOxygen)
	salinity := extensionOr(in.Extensions.Salinity, defaultSalinity)

	// Henry's law scaling with pressure; salting-out reduces solubility.
	saturation := oxygenSaturationRef * pressure * math.Max(0, 1.0-0.01*salinity)
	driving := math.Max(0, saturation-oxygen)
	kla := f.massTransferCoeff * 3600.0 * 50.0 // 1/h with ~50 m^2/m^3 specific area
	otr := kla * driving

	utilization := math.Min(100, f.substrate*f.growth*120.0)

	// mA/m^2 -> A/m^2, one proton per electron at the anode.
	protonFlux := (basic.CurrentDensity / 1000.0) / faradayConstant

	return MassTransfer{
		OxygenTransferRate:   otr,
		SubstrateUtilization: utilization,
		ProtonFlux:           protonFlux,
	}
}

// biofilmDynamics ties film structure to the same growth factor that
// drives efficiency.
func biofilmDynamics(dev *catalog.Device, p Parameters, f factors) BiofilmDynamics {
	shear := p.MixingSpeed / 1000.0
	adhesion := math.Min(1, math.Max(0, 0.4+0.3*dev.SurfaceRoughness-shear))
	return BiofilmDynamics{
		Thickness: dev.BiofilmThickness * (0.6 + 0.8*f.growth),
		Viability: f.growth * 100.0,
		Adhesion:  adhesion * 100.0,
	}
}

// economics estimates daily running costs from energy inputs around the
// catalog baseline.
func economics(dev *catalog.Device, p Parameters, basic *Result) Economics {
	heating := math.Abs(p.Temperature-ambientTemperature) * 0.05
	mixing := math.Pow(p.MixingSpeed/100.0, 2) * 0.3
	pumping := p.FlowRate / 100.0 * 0.1
	powerDraw := (p.ElectrodeVoltage / 1000.0) * (basic.CurrentDensity / 1000.0) * 0.5

	operating := dev.BaselineCost + heating + mixing + pumping + powerDraw
	maintenance := dev.BaselineCost*0.3 + p.SubstrateConcentration*0.05

	perCost := 0.0
	if operating > epsilon {
		perCost = basic.Efficiency / operating
	}
	return Economics{
		OperatingCost:     operating,
		MaintenanceCost:   maintenance,
		EfficiencyPerCost: perCost,
	}
}

// ambientTemperature is the reference temperature for heating/cooling cost.
const ambientTemperature = 20.0
