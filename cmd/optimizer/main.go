package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/samfrons/Messai.io-sub005/internal/catalog"
	"github.com/samfrons/Messai.io-sub005/internal/config"
	"github.com/samfrons/Messai.io-sub005/internal/logging"
	"github.com/samfrons/Messai.io-sub005/internal/metrics"
	"github.com/samfrons/Messai.io-sub005/internal/optimization"
	"github.com/samfrons/Messai.io-sub005/internal/optimization/engine"
	"github.com/samfrons/Messai.io-sub005/internal/prediction"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize base logger
	logger, err := logging.NewLogger(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	serviceLogger := logger.WithFields(map[string]interface{}{
		"service": "bioreactor-optimizer",
		"version": "1.0.0",
	})

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	store := catalog.Default()
	predictor, err := prediction.NewEngine(prediction.EngineConfig{
		Catalog:  store,
		Logger:   serviceLogger,
		CacheTTL: cfg.Prediction.CacheTTL,
		Metrics:  m,
	})
	if err != nil {
		serviceLogger.Fatal("Failed to build prediction engine", map[string]interface{}{"error": err.Error()})
	}

	const deviceID = "mfc-membrane-lab"
	oracle := optimization.FromPrediction(predictor.Evaluate(deviceID, prediction.Intermediate))

	req := engine.Request{
		Objective: optimization.Objective{Kind: optimization.MaximizePower},
		Constraints: optimization.Constraints{
			Temperature:            optimization.Interval{Min: 20, Max: 40},
			PH:                     optimization.Interval{Min: 6, Max: 8},
			FlowRate:               optimization.Interval{Min: 10, Max: 200},
			MixingSpeed:            optimization.Interval{Min: 0, Max: 300},
			ElectrodeVoltage:       optimization.Interval{Min: 0, Max: 200},
			SubstrateConcentration: optimization.Interval{Min: 0.1, Max: 5},
		},
		Params: optimization.Params{
			Algorithm:      optimization.GradientDescent,
			MaxIterations:  cfg.Optimization.MaxIterations,
			Tolerance:      cfg.Optimization.Tolerance,
			PopulationSize: cfg.Optimization.PopulationSize,
			RandomSeed:     cfg.Optimization.RandomSeed,
		},
		Oracle: oracle,
	}

	opt := engine.New(serviceLogger, m)
	ctx := context.Background()

	result, err := opt.Run(ctx, req)
	if err != nil {
		serviceLogger.Fatal("Optimization run failed", map[string]interface{}{"error": err.Error()})
	}
	serviceLogger.Info("Single-objective result", map[string]interface{}{
		"device":      deviceID,
		"success":     result.Success,
		"iterations":  result.Iterations,
		"temperature": result.OptimizedParameters.Temperature,
		"ph":          result.OptimizedParameters.PH,
		"power":       -result.ObjectiveValue,
	})

	pareto, err := opt.RunMultiObjective(ctx, req, engine.MultiObjectiveConfig{
		Samples: cfg.Optimization.ParetoSamples,
		Workers: cfg.Optimization.WorkerCount,
	})
	if err != nil {
		serviceLogger.Fatal("Multi-objective run failed", map[string]interface{}{"error": err.Error()})
	}
	serviceLogger.Info("Multi-objective result", map[string]interface{}{
		"front_size":  len(pareto.ParetoFront),
		"temperature": pareto.OptimizedParameters.Temperature,
		"power":       -pareto.ObjectiveValue,
	})
}
