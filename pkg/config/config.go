package config

// this holds the resolved configuration values from CLI
var (
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogConfig         string // path to log filter rules file
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry (empty: stdout exporters)
	ProfilingPort     int    // port for profiling
	Speed             int    // replay speed in samples per second
	OutputFile        string // where to write normalized samples ("-" for stdout)
	OutputFormat      string // text vs json output for the coach replay
)
