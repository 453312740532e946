package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldExpenseID  = "expense_id"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldCount      = "count"
	FieldBackend    = "backend"
	FieldSlot       = "slot"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldAddr       = "addr"
	FieldFilterFrom = "filter_from"
	FieldFilterTo   = "filter_to"
	FieldConfigPath = "config_path"
	FieldFile       = "file"
	FieldFormat     = "format"
	FieldCommit     = "commit"
)

// Components
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentHTTP     = "http"
	ComponentActivity = "activity"
	ComponentImport   = "import"
	ComponentGit      = "git"
)

// Operations
const (
	OpLoad   = "load"
	OpSave   = "save"
	OpAdd    = "add"
	OpDelete = "delete"
	OpFilter = "filter"
	OpImport = "import"
)
