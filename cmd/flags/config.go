package flags

var (
	DataDir     string
	ConfigPath  string
	Debug       bool
	NoPrefix    bool
	Dev         bool
	ForceBinDir bool
	LogStd      bool
	Sort        bool
)
