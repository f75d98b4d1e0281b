package log

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEntryID    = "entry_id"
	FieldEntryIDs   = "entry_ids"
	FieldOutcome    = "outcome"
	FieldStake      = "stake"
	FieldAmount     = "amount"
	FieldCoerced    = "coerced_fields"
	FieldBackend    = "backend"
	FieldLanguage   = "language"
	FieldCurrency   = "currency"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentStorage  = "storage"
	ComponentSettings = "settings"
	ComponentAMQP     = "amqp"
	ComponentMetrics  = "metrics"
	ComponentBackend  = "backend"
	ComponentCLI      = "cli"
	ComponentCache    = "cache"
	ComponentWorker   = "worker"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntry adds the identifying and monetary fields of an entry.
func (f LogFields) WithEntry(id uuid.UUID, outcome string, stake, amount decimal.Decimal) LogFields {
	f[FieldEntryID] = id.String()
	f[FieldOutcome] = outcome
	f[FieldStake] = stake.String()
	f[FieldAmount] = amount.String()
	return f
}

// WithEntryIDs adds a list of entry ids.
func (f LogFields) WithEntryIDs(ids []uuid.UUID) LogFields {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	f[FieldEntryIDs] = out
	return f
}

// WithHTTP adds request and response fields.
func (f LogFields) WithHTTP(method, path string, statusCode int, durationMs int64) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
