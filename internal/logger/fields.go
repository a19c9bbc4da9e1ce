package logger

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the model provider name.
	FieldProvider = "model_provider"
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "model_name"
	// FieldRole is the structured log field key for the role a model plays in scoring.
	FieldRole = "model_role"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// ScoreField describes a score-valued structured logging field.
type ScoreField struct {
	Key   string
	Value float64
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// ScoreFields converts score components into zap fields. NaN and infinite values are
// logged as strings so that the json encoder never drops the entry.
func ScoreFields(fields ...ScoreField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		if math.IsNaN(field.Value) || math.IsInf(field.Value, 0) {
			result = append(result, zap.String(key, "invalid"))
			continue
		}

		result = append(result, zap.Float64(key, field.Value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ModelFields returns standard fields that describe a model handle.
func ModelFields(role, provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRole, Value: role},
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithModelFields attaches the model fields to the provided logger.
func WithModelFields(logger *zap.Logger, role, provider, model string) *zap.Logger {
	return WithFields(logger, ModelFields(role, provider, model)...)
}
