package config

import (
	"os"
	"path/filepath"
)

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultStateDir("data"),
			MediaDir: defaultStateDir("media"),
			LogDir:   defaultStateDir("logs"),
		},
		TMDB: TMDB{
			BaseURL:  "https://api.themoviedb.org/3",
			Language: "en-US",
		},
		LLM: LLM{
			BaseURL:        "https://openrouter.ai/api/v1/chat/completions",
			TimeoutSeconds: 30,
		},
		Enrichment: Enrichment{
			VisibilityRetryAttempts: 5,
			VisibilityRetryBaseMS:   500,
			VisibilityRetryStepMS:   500,
			PowerMeterMin:           40,
			PowerMeterMax:           90,
		},
		Batch: Batch{
			ItemDelaySeconds: 10,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func defaultStateDir(leaf string) string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && base != "" {
		return filepath.Join(base, "faces", leaf)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("~", ".local", "share", "faces", leaf)
	}
	return filepath.Join(home, ".local", "share", "faces", leaf)
}
