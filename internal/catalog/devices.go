package catalog

// referenceDevices is the built-in catalog. Constants are representative
// literature values for each architecture, not measurements of a specific
// physical unit.
var referenceDevices = []*Device{
	{
		ID:    "mfc-membrane-lab",
		Name:  "Dual-chamber membrane MFC",
		Type:  MembraneMFC,
		Scale: Lab,

		TempRange:      Range{Min: 15, Max: 45},
		TempOptimum:    30,
		TempTolerance:  2.5,
		PHRange:        Range{Min: 5.5, Max: 8.5},
		PHOptimum:      7.0,
		PHTolerance:    0.3,
		BufferCapacity: 0.8,
		FlowRange:      Range{Min: 5, Max: 250},
		FlowOptimum:    60,
		MixingRange:    Range{Min: 0, Max: 400},
		MixingOptimum:  120,
		VoltageRange:   Range{Min: 0, Max: 300},
		SubstrateRange: Range{Min: 0.05, Max: 8},

		ActivationEnergy: 52000,
		HalfSaturation:   0.35,
		InhibitionConst:  12.0,
		MaxGrowthRate:    0.12,

		ElectrodeMaterial:       "carbon-cloth",
		ExchangeCurrentDensity:  0.9,
		SurfaceRoughness:        1.4,
		BiofilmEnhancement:      1.6,
		BiofilmThickness:        85,
		ElectrodeSpacing:        2.0,
		ElectrodeArea:           25,
		ElectrolyteConductivity: 1.2,

		CharacteristicLength: 0.02,
		Diffusivity:          1.1e-9,

		MaxPowerDensity:    850,
		NominalCellVoltage: 0.55,
		BaselineEfficiency: 62,
		ConfidenceTier:     85,
		BaselineCost:       4.2,
		NominalLifetime:    18000,
	},
	{
		ID:    "stirred-tank-pilot",
		Name:  "Stirred-tank bioelectrochemical reactor",
		Type:  StirredTank,
		Scale: Pilot,

		TempRange:      Range{Min: 18, Max: 42},
		TempOptimum:    32,
		TempTolerance:  3.0,
		PHRange:        Range{Min: 6.0, Max: 8.0},
		PHOptimum:      6.8,
		PHTolerance:    0.4,
		BufferCapacity: 1.0,
		FlowRange:      Range{Min: 20, Max: 500},
		FlowOptimum:    150,
		MixingRange:    Range{Min: 50, Max: 600},
		MixingOptimum:  220,
		VoltageRange:   Range{Min: 0, Max: 250},
		SubstrateRange: Range{Min: 0.1, Max: 10},

		ActivationEnergy: 48000,
		HalfSaturation:   0.5,
		InhibitionConst:  15.0,
		MaxGrowthRate:    0.15,

		ElectrodeMaterial:       "graphite-rod",
		ExchangeCurrentDensity:  0.6,
		SurfaceRoughness:        1.1,
		BiofilmEnhancement:      1.4,
		BiofilmThickness:        110,
		ElectrodeSpacing:        4.5,
		ElectrodeArea:           180,
		ElectrolyteConductivity: 2.0,

		CharacteristicLength: 0.08,
		Diffusivity:          1.0e-9,

		MaxPowerDensity:    620,
		NominalCellVoltage: 0.50,
		BaselineEfficiency: 55,
		ConfidenceTier:     78,
		BaselineCost:       11.5,
		NominalLifetime:    26000,
	},
	{
		ID:    "photo-algal-lab",
		Name:  "Flat-panel photobioreactor",
		Type:  Photobioreactor,
		Scale: Lab,

		TempRange:      Range{Min: 15, Max: 35},
		TempOptimum:    26,
		TempTolerance:  2.0,
		PHRange:        Range{Min: 6.5, Max: 9.0},
		PHOptimum:      7.5,
		PHTolerance:    0.5,
		BufferCapacity: 1.1,
		FlowRange:      Range{Min: 10, Max: 300},
		FlowOptimum:    90,
		MixingRange:    Range{Min: 0, Max: 250},
		MixingOptimum:  80,
		VoltageRange:   Range{Min: 0, Max: 150},
		SubstrateRange: Range{Min: 0.05, Max: 6},

		ActivationEnergy: 45000,
		HalfSaturation:   0.25,
		InhibitionConst:  9.0,
		MaxGrowthRate:    0.09,

		ElectrodeMaterial:       "carbon-felt",
		ExchangeCurrentDensity:  0.4,
		SurfaceRoughness:        1.8,
		BiofilmEnhancement:      1.2,
		BiofilmThickness:        60,
		ElectrodeSpacing:        3.0,
		ElectrodeArea:           40,
		ElectrolyteConductivity: 0.9,

		CharacteristicLength: 0.015,
		Diffusivity:          1.3e-9,

		MaxPowerDensity:    410,
		NominalCellVoltage: 0.45,
		BaselineEfficiency: 48,
		ConfidenceTier:     72,
		BaselineCost:       6.8,
		NominalLifetime:    15000,
	},
	{
		ID:    "airlift-industrial",
		Name:  "Airlift loop bioreactor",
		Type:  Airlift,
		Scale: Industrial,

		TempRange:      Range{Min: 20, Max: 40},
		TempOptimum:    34,
		TempTolerance:  3.5,
		PHRange:        Range{Min: 6.0, Max: 8.2},
		PHOptimum:      7.1,
		PHTolerance:    0.4,
		BufferCapacity: 0.9,
		FlowRange:      Range{Min: 50, Max: 1200},
		FlowOptimum:    420,
		MixingRange:    Range{Min: 0, Max: 200},
		MixingOptimum:  0,
		VoltageRange:   Range{Min: 0, Max: 200},
		SubstrateRange: Range{Min: 0.2, Max: 12},

		ActivationEnergy: 50000,
		HalfSaturation:   0.6,
		InhibitionConst:  18.0,
		MaxGrowthRate:    0.11,

		ElectrodeMaterial:       "stainless-mesh",
		ExchangeCurrentDensity:  0.3,
		SurfaceRoughness:        1.05,
		BiofilmEnhancement:      1.3,
		BiofilmThickness:        140,
		ElectrodeSpacing:        8.0,
		ElectrodeArea:           900,
		ElectrolyteConductivity: 2.8,

		CharacteristicLength: 0.25,
		Diffusivity:          0.9e-9,

		MaxPowerDensity:    380,
		NominalCellVoltage: 0.48,
		BaselineEfficiency: 50,
		ConfidenceTier:     68,
		BaselineCost:       42.0,
		NominalLifetime:    40000,
	},
	{
		ID:    "fractal-mfc-lab",
		Name:  "Fractal-electrode MFC",
		Type:  FractalMFC,
		Scale: Lab,

		TempRange:      Range{Min: 18, Max: 42},
		TempOptimum:    31,
		TempTolerance:  2.5,
		PHRange:        Range{Min: 5.8, Max: 8.4},
		PHOptimum:      7.0,
		PHTolerance:    0.3,
		BufferCapacity: 0.85,
		FlowRange:      Range{Min: 5, Max: 220},
		FlowOptimum:    70,
		MixingRange:    Range{Min: 0, Max: 350},
		MixingOptimum:  100,
		VoltageRange:   Range{Min: 0, Max: 320},
		SubstrateRange: Range{Min: 0.05, Max: 7},

		ActivationEnergy: 53000,
		HalfSaturation:   0.3,
		InhibitionConst:  11.0,
		MaxGrowthRate:    0.13,

		ElectrodeMaterial:       "fractal-carbon",
		ExchangeCurrentDensity:  1.3,
		SurfaceRoughness:        2.6,
		BiofilmEnhancement:      1.8,
		BiofilmThickness:        95,
		ElectrodeSpacing:        1.5,
		ElectrodeArea:           55,
		ElectrolyteConductivity: 1.4,

		CharacteristicLength: 0.018,
		Diffusivity:          1.1e-9,

		MaxPowerDensity:    1150,
		NominalCellVoltage: 0.58,
		BaselineEfficiency: 66,
		ConfidenceTier:     80,
		BaselineCost:       5.6,
		NominalLifetime:    16000,
	},
}
