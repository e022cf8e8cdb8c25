package whisper

// Config captures runtime settings for transcription runs.
type Config struct {
	// Binary is the engine executable to invoke.
	Binary string
	// Model is the Whisper model to load (e.g., "tiny", "base", "medium").
	Model string
	// Device selects the compute device ("cpu" or "cuda").
	Device string
	// TimeoutSeconds bounds a single engine invocation. Zero means no limit.
	TimeoutSeconds int
}

// Engine configuration constants.
const (
	DefaultBinary   = "whisper_timestamped"
	DefaultModel    = "tiny"
	DefaultLanguage = "en"
	CPUDevice       = "cpu"
	CUDADevice      = "cuda"
	OutputFormat    = "json"
)
