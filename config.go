package main

import "os"

// config holds the process-level settings. Storage backend settings are
// read by the storage package itself.
type config struct {
	Port       string // PORT, the listen port
	LegacyFile string // LEGACY_FILE, consolidated dataset migrated on startup
	StaticDir  string // STATIC_DIR, root of the static frontend
}

func loadConfig() config {
	return config{
		Port:       getEnv("PORT", "3000"),
		LegacyFile: getEnv("LEGACY_FILE", "students.json"),
		StaticDir:  getEnv("STATIC_DIR", "."),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
