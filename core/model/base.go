// Package model provides the abstractions shared by the smoothing engines.
//
// Every engine embeds BaseEstimator, which records the engine type, its
// hyperparameters and the logger used for its operations:
//
//	type SpatialAverage struct {
//		model.BaseEstimator
//		// engine-specific fields
//	}
//
// Engines are usable as soon as they are constructed: the training data and
// the covariance are resolved by the constructor, so there is no separate
// fitting step.
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/kernsmooth/pkg/log"
)

// Evaluator is implemented by engines taking d×M query matrices.
type Evaluator interface {
	Evaluate(points mat.Matrix) ([]float64, error)
	Dims() (d, n int)
}

// Evaluator1D is implemented by engines taking scalar query points.
type Evaluator1D interface {
	Evaluate(points []float64) ([]float64, error)
	Len() int
}

// BaseEstimator is the base structure for all engines.
type BaseEstimator struct {
	// ModelType identifies the engine.
	ModelType string

	logger          log.Logger
	hyperparameters map[string]interface{}
}

// NewBaseEstimator creates a BaseEstimator logging through logger. A nil
// logger selects the component logger of the global provider.
func NewBaseEstimator(modelType string, logger log.Logger) BaseEstimator {
	if logger == nil {
		logger = log.GetLoggerWithName("smoothing")
	}
	return BaseEstimator{
		ModelType:       modelType,
		logger:          logger.With(log.ModelNameKey, modelType),
		hyperparameters: make(map[string]interface{}),
	}
}

// Logger returns the engine logger.
func (e *BaseEstimator) Logger() log.Logger {
	return e.logger
}

// GetParams returns a copy of the engine hyperparameters.
func (e *BaseEstimator) GetParams() map[string]interface{} {
	params := make(map[string]interface{}, len(e.hyperparameters))
	for k, v := range e.hyperparameters {
		params[k] = v
	}
	return params
}

// SetParam records a hyperparameter. It does not reconfigure the engine.
func (e *BaseEstimator) SetParam(key string, value interface{}) {
	if e.hyperparameters == nil {
		e.hyperparameters = make(map[string]interface{})
	}
	e.hyperparameters[key] = value
}

// LogInfo logs an info-level message if a logger is configured.
func (e *BaseEstimator) LogInfo(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Info(msg, fields...)
	}
}

// LogDebug logs a debug-level message if a logger is configured.
func (e *BaseEstimator) LogDebug(msg string, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, fields...)
	}
}

// LogError logs err at error level if a logger is configured.
func (e *BaseEstimator) LogError(msg string, err error, fields ...interface{}) {
	if e.logger != nil {
		e.logger.Error(msg, append([]interface{}{err}, fields...)...)
	}
}
