package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldSeq         = "seq"
	FieldName        = "name"
	FieldValue       = "value"
	FieldDate        = "date"
	FieldAccountID   = "account_id"
	FieldAccountFrom = "account_from"
	FieldAccountTo   = "account_to"
	FieldCurrency    = "currency"
	FieldRate        = "rate"
	FieldEventID     = "event_id"
	FieldCount       = "count"
	FieldDBPath      = "db_path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentCLI     = "cli"
	ComponentHTTP    = "http"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpList     = "list"
	OpAppend   = "append"
	OpTransfer = "transfer"
	OpReport   = "report"
	OpRate     = "rate_lookup"
	OpPublish  = "publish"
	OpMigrate  = "migrate"
	OpParse    = "parse"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
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

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPosting adds the fields of a single ledger posting
func (f LogFields) WithPosting(seq int64, name, value, date string, accountID int64) LogFields {
	f[FieldSeq] = seq
	f[FieldName] = name
	f[FieldValue] = value
	f[FieldDate] = date
	f[FieldAccountID] = accountID
	return f
}

// WithTransfer adds source and destination account ids
func (f LogFields) WithTransfer(from, to int64) LogFields {
	f[FieldAccountFrom] = from
	f[FieldAccountTo] = to
	return f
}

// WithDurationMs adds duration in milliseconds
func (f LogFields) WithDurationMs(ms int64) LogFields {
	f[FieldDuration] = ms
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
