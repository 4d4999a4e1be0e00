package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the enrichment provider.
	FieldProvider = "provider"
	// FieldModel is the structured log field key for the provider model.
	FieldModel = "model"
	// FieldTemplate is the structured log field key for the template id.
	FieldTemplate = "template"
	// FieldInput is the structured log field key for the input document path.
	FieldInput = "input"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, omitting entries with
// an empty key or value.
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

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields describes the enrichment provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// WithDocument tags logger with the input path and template of one render.
func WithDocument(logger *zap.Logger, input, template string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldInput, Value: input},
		StringField{Key: FieldTemplate, Value: template},
	)...)
}
