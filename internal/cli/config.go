package cli

import (
	"os"
)

// Config holds CLI configuration shared by every command
type Config struct {
	ServerURL string
	Player    string
	Output    string
	Verbose   bool

	// Settings is the server settings file used by local commands
	Settings string
}

// DefaultConfig reads defaults from CWROBOT_SERVER, CWROBOT_PLAYER and
// CWROBOT_CONFIG
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("CWROBOT_SERVER", "http://localhost:8080"),
		Player:    os.Getenv("CWROBOT_PLAYER"),
		Output:    "text",
		Settings:  os.Getenv("CWROBOT_CONFIG"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
