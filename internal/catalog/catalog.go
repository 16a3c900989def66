// Package catalog provides the read-only bioreactor reference catalog.
//
// Each Device entry carries the physical and biological constants the
// prediction engine needs: operating ranges and optima, electrode and
// biofilm descriptors, mass-transfer properties, and baseline economics.
// Entries are looked up by id; a missing id is a hard error.
package catalog

import (
	"fmt"

	apperrors "github.com/samfrons/Messai.io-sub005/internal/errors"
)

// ErrUnknownDevice is returned when a device id is not present in the store.
var ErrUnknownDevice = apperrors.New("unknown device id")

// DeviceType identifies the reactor architecture.
type DeviceType int

const (
	MembraneMFC DeviceType = iota
	StirredTank
	Photobioreactor
	Airlift
	FractalMFC
)

// String returns a human-readable name for the device type.
func (t DeviceType) String() string {
	switch t {
	case MembraneMFC:
		return "membrane-mfc"
	case StirredTank:
		return "stirred-tank"
	case Photobioreactor:
		return "photobioreactor"
	case Airlift:
		return "airlift"
	case FractalMFC:
		return "fractal-mfc"
	default:
		return fmt.Sprintf("device-type(%d)", int(t))
	}
}

// Scale identifies the deployment scale of a device.
type Scale int

const (
	Lab Scale = iota
	Pilot
	Industrial
)

// String returns a human-readable name for the scale.
func (s Scale) String() string {
	switch s {
	case Lab:
		return "lab"
	case Pilot:
		return "pilot"
	case Industrial:
		return "industrial"
	default:
		return fmt.Sprintf("scale(%d)", int(s))
	}
}

// Range is a closed interval of admissible values for one parameter.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Device holds the reference constants for one bioreactor design.
//
// Units: temperatures in degC, pH unitless, flow in mL/min, mixing in rpm,
// voltage in mV, substrate in g/L, power density in mW/m^2, exchange current
// density in A/m^2, spacing in cm, area in cm^2, conductivity in S/m,
// diffusivity in m^2/s, characteristic length in m.
type Device struct {
	ID    string
	Name  string
	Type  DeviceType
	Scale Scale

	// Operating ranges and optima.
	TempRange      Range
	TempOptimum    float64
	TempTolerance  float64
	PHRange        Range
	PHOptimum      float64
	PHTolerance    float64
	BufferCapacity float64 // width of the pH response Gaussian
	FlowRange      Range
	FlowOptimum    float64 // airlift circulation optimum
	MixingRange    Range
	MixingOptimum  float64 // stirred-tank impeller optimum
	VoltageRange   Range
	SubstrateRange Range

	// Microbial kinetics.
	ActivationEnergy float64 // J/mol, Arrhenius form around TempOptimum
	HalfSaturation   float64 // Monod Ks, g/L
	InhibitionConst  float64 // Haldane Ki, g/L
	MaxGrowthRate    float64 // 1/h

	// Electrode and biofilm descriptors.
	ElectrodeMaterial       string
	ExchangeCurrentDensity  float64
	SurfaceRoughness        float64 // dimensionless multiplier >= 1
	BiofilmEnhancement      float64 // dimensionless multiplier >= 1
	BiofilmThickness        float64 // um, at reference conditions
	ElectrodeSpacing        float64
	ElectrodeArea           float64
	ElectrolyteConductivity float64

	// Mass transfer.
	CharacteristicLength float64
	Diffusivity          float64

	// Baseline performance and economics.
	MaxPowerDensity    float64 // mW/m^2 at optimal conditions
	NominalCellVoltage float64 // V
	BaselineEfficiency float64 // percent, coulombic
	ConfidenceTier     float64 // percent, quality of the underlying data
	BaselineCost       float64 // USD/day at reference conditions
	NominalLifetime    float64 // hours to end of life at reference conditions
}

// Store is an immutable collection of devices keyed by id.
type Store struct {
	devices map[string]*Device
}

// NewStore builds a store from the given devices. Later duplicates win.
func NewStore(devices []*Device) *Store {
	m := make(map[string]*Device, len(devices))
	for _, d := range devices {
		m[d.ID] = d
	}
	return &Store{devices: m}
}

// Default returns a store populated with the built-in reference designs.
func Default() *Store {
	return NewStore(referenceDevices)
}

// Lookup returns the device with the given id.
// It returns ErrUnknownDevice if the id is not present.
func (s *Store) Lookup(id string) (*Device, error) {
	d, ok := s.devices[id]
	if !ok {
		return nil, apperrors.Wrapf(ErrUnknownDevice, "catalog lookup %q", id)
	}
	return d, nil
}

// IDs returns the ids of all devices in the store.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.devices))
	for id := range s.devices {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of devices in the store.
func (s *Store) Len() int {
	return len(s.devices)
}
