package env

import (
	"os"

	"github.com/joho/godotenv"
)

var values map[string]string

// GetEnv returns the configured value for key, falling back to the process
// environment and then to def.
func GetEnv(key, def string) string {
	if val, ok := values[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the .env file from the project root. Binaries under
// cmd/ run with a working directory two levels down.
func SetupEnvFile() {
	for _, path := range []string{".env", "../../.env", "../../../.env"} {
		if env, err := godotenv.Read(path); err == nil {
			values = env
			return
		}
	}
	panic("No .env file found in any of the expected locations")
}

// IsDev reports whether the app runs in development mode.
func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
