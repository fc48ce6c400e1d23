package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldMonth     = "month"
	FieldDBPath    = "db_path"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentDashboard = "dashboard"
	ComponentSeed      = "seed"
)
