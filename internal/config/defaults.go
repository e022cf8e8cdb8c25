package config

const (
	defaultModelCacheDir         = "~/.cache/whisper"
	defaultLogDir                = "~/.local/share/lipi/logs"
	defaultHistoryDB             = "~/.local/share/lipi/history.db"
	defaultWhisperBinary         = "whisper_timestamped"
	defaultWhisperModel          = "tiny"
	defaultWhisperDevice         = "cpu"
	defaultWhisperLanguage       = "en"
	defaultWhisperTimeoutSeconds = 1800
	defaultWatchInDir            = "~/.local/share/lipi/inbox"
	defaultWatchOutDir           = "~/.local/share/lipi/outbox"
	defaultWatchDebounceMS       = 500
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelCacheDir: defaultModelCacheDir,
			LogDir:        defaultLogDir,
			HistoryDB:     defaultHistoryDB,
		},
		Whisper: Whisper{
			Binary:         defaultWhisperBinary,
			Model:          defaultWhisperModel,
			Device:         defaultWhisperDevice,
			Language:       defaultWhisperLanguage,
			TimeoutSeconds: defaultWhisperTimeoutSeconds,
		},
		Watch: Watch{
			InDir:      defaultWatchInDir,
			OutDir:     defaultWatchOutDir,
			DebounceMS: defaultWatchDebounceMS,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
