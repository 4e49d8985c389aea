package config

import "runtime"

const (
	defaultServicesSubdir     = "iceoryx2/services"
	defaultStateDir           = "~/.local/share/iox2sweep"
	defaultProcessName        = "iceoryx2-request-response"
	defaultGracePeriodSeconds = 3
	defaultStatePattern       = "iox2_*.shm_state"
	defaultServicePattern     = "iox2_*.service"
	defaultMinAgeSeconds      = 0
	defaultJournalFile        = "journal.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir:  defaultBaseDir(),
			StateDir: defaultStateDir,
		},
		Process: Process{
			Name:               defaultProcessName,
			Terminate:          true,
			GracePeriodSeconds: defaultGracePeriodSeconds,
		},
		Sweep: Sweep{
			StatePattern:   defaultStatePattern,
			ServicePattern: defaultServicePattern,
			MinAgeSeconds:  defaultMinAgeSeconds,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// defaultBaseDir mirrors where the iceoryx2 runtime keeps its shared-memory
// state: the fixed system temp directory, not os.TempDir, which on some
// platforms points at a per-user location the middleware never uses.
func defaultBaseDir() string {
	if runtime.GOOS == "windows" {
		return `C:\Temp`
	}
	return "/tmp"
}
