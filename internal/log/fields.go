package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"

	FieldSlot     = "slot"
	FieldRecordID = "record_id"
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldAmount   = "amount"
	FieldEggsSold = "eggs_sold"
	FieldCount    = "count"
	FieldSheetRef = "sheet_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentStorage  = "storage"
	ComponentWeather  = "weather"
	ComponentAMQP     = "amqp"
	ComponentExporter = "exporter"
	ComponentSheets   = "sheets"
)
