package cfg

type Cfg struct {
	// Input/output paths
	OPMLPath   string
	RulesPath  string
	OutputPath string

	// Fetch configuration
	WorkerCount  int
	FetchTimeout int // seconds
	UserAgent    string

	// Application metadata
	Debug   bool
	Version string
}
