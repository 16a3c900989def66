package prediction

import (
	"fmt"
	"strings"
	"time"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
	"github.com/samfrons/Messai.io-sub005/internal/logging"
	"github.com/samfrons/Messai.io-sub005/internal/metrics"
)

// EngineConfig configures a prediction engine.
type EngineConfig struct {
	// Catalog is the device reference store. Required.
	Catalog *catalog.Store
	// Logger for per-prediction debug lines. Optional.
	Logger *logging.Logger
	// CacheTTL bounds result staleness. Defaults to 5 minutes.
	CacheTTL time.Duration
	// Clock is injected for cache-expiry tests. Defaults to the system clock.
	Clock Clock
	// Metrics collectors. Optional.
	Metrics *metrics.Metrics
}

// Engine is the multi-fidelity prediction engine. It is safe for
// concurrent use; the cache is its only mutable state.
type Engine struct {
	catalog *catalog.Store
	logger  *logging.Logger
	cache   *resultCache
	metrics *metrics.Metrics
}

// NewEngine creates a prediction engine from the given configuration.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("prediction: catalog store is required")
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Engine{
		catalog: cfg.Catalog,
		logger:  cfg.Logger,
		cache:   newResultCache(ttl, cfg.Clock),
		metrics: cfg.Metrics,
	}, nil
}

// Predict evaluates the performance model for the given input. An unknown
// device id is a hard failure; out-of-range parameters only degrade
// confidence and add warnings. Results are memoized for the cache window.
func (e *Engine) Predict(in Input) (*Result, error) {
	dev, err := e.catalog.Lookup(in.DeviceID)
	if err != nil {
		return nil, err
	}

	key := cacheKey(in)
	if cached, ok := e.cache.get(key); ok {
		if e.metrics != nil {
			e.metrics.CacheHits.Inc()
		}
		return cached, nil
	}
	if e.metrics != nil {
		e.metrics.CacheMisses.Inc()
	}

	f := computeFactors(dev, in.Parameters, in.Extensions)
	result := computeBasic(dev, in, f)
	if in.Fidelity >= Intermediate {
		result.Intermediate = computeIntermediate(dev, in, f, result)
	}
	if in.Fidelity >= Advanced {
		result.Advanced = computeAdvanced(dev, in, f, result)
	}

	if e.metrics != nil {
		e.metrics.Predictions.WithLabelValues(in.Fidelity.String()).Inc()
	}
	if e.logger != nil {
		e.logger.Debug("prediction computed", map[string]interface{}{
			"device":   in.DeviceID,
			"fidelity": in.Fidelity.String(),
			"power":    result.PowerDensity,
			"status":   result.Status.String(),
		})
	}

	e.cache.put(key, result)
	return result, nil
}

// Evaluate returns a closure over Predict for a fixed device and fidelity.
// The optimization layer uses this as its evaluation oracle.
func (e *Engine) Evaluate(deviceID string, fidelity Fidelity) func(Parameters) (*Result, error) {
	return func(p Parameters) (*Result, error) {
		return e.Predict(Input{
			DeviceID:   deviceID,
			Parameters: p,
			Fidelity:   fidelity,
		})
	}
}

// PurgeExpired drops expired cache entries. Long-running hosts can call
// this periodically; correctness does not depend on it.
func (e *Engine) PurgeExpired() {
	e.cache.purge()
}

// cacheKey builds a structural fingerprint of the full input.
func cacheKey(in Input) string {
	var b strings.Builder
	p := in.Parameters
	fmt.Fprintf(&b, "%s|%d|%g|%g|%g|%g|%g|%g",
		in.DeviceID, in.Fidelity,
		p.Temperature, p.PH, p.FlowRate, p.MixingSpeed,
		p.ElectrodeVoltage, p.SubstrateConcentration)
	for _, v := range []*float64{in.Extensions.Pressure, in.Extensions.OxygenLevel, in.Extensions.Salinity} {
		if v == nil {
			b.WriteString("|-")
		} else {
			fmt.Fprintf(&b, "|%g", *v)
		}
	}
	return b.String()
}
