package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldRecordID    = "record_id"
	FieldRecordKind  = "record_kind"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentStorage   = "storage"
	ComponentEvents    = "events"
	ComponentWorker    = "worker"
	ComponentClient    = "client"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpList     = "list"
	OpRegister = "register"
	OpLogin    = "login"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
