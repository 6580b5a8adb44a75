package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gallery-gen/internal/logging"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	MediaDir       string
	OutputFile     string
	VarName        string
	GalleryDir     string
	Serve          bool
	Port           string
	MetricsEnabled bool
	LogStaticFiles bool
}

// LoadConfig loads configuration from the environment. A .env file in
// the working directory is honored when present (variables already set
// in the environment win).
func LoadConfig() (*Config, error) {
	// Load .env before the first log call: the log level comes from the
	// environment and must see DEBUG/LOG_LEVEL values set only there.
	loadedDotEnv := godotenv.Load() == nil
	logging.ReloadLevel()

	printBanner()
	if loadedDotEnv {
		logging.Debug("Loaded environment from .env")
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config := &Config{
		MediaDir:       getEnv("MEDIA_DIR", "img"),
		OutputFile:     getEnv("OUTPUT_FILE", "gallery_data.js"),
		VarName:        getEnv("OUTPUT_VAR", "generatedFileSystem"),
		GalleryDir:     getEnv("GALLERY_DIR", "."),
		Serve:          getEnvBool("SERVE", false),
		Port:           getEnv("PORT", "8080"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		LogStaticFiles: getEnvBool("LOG_STATIC_FILES", false),
	}

	logging.Info("  MEDIA_DIR:        %s", config.MediaDir)
	logging.Info("  OUTPUT_FILE:      %s", config.OutputFile)
	logging.Info("  OUTPUT_VAR:       %s", config.VarName)
	logging.Info("  SERVE:            %v", config.Serve)
	if config.Serve {
		logging.Info("  GALLERY_DIR:      %s", config.GalleryDir)
		logging.Info("  PORT:             %s", config.Port)
		logging.Info("  METRICS_ENABLED:  %v", config.MetricsEnabled)
		logging.Info("  LOG_STATIC_FILES: %v", config.LogStaticFiles)
	}
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())
	logging.Info("")

	if config.VarName == "" {
		return nil, fmt.Errorf("OUTPUT_VAR must not be empty")
	}

	return config, nil
}

// CheckMediaDir verifies that the configured media directory exists and
// is a directory. A missing root is the one condition that aborts the
// whole run before anything is written.
func CheckMediaDir(config *Config) error {
	info, err := os.Stat(config.MediaDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("media directory %q does not exist", config.MediaDir)
	}
	if err != nil {
		return fmt.Errorf("cannot access media directory %q: %w", config.MediaDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media path %q is not a directory", config.MediaDir)
	}

	if logging.IsDebugEnabled() {
		if abs, err := filepath.Abs(config.MediaDir); err == nil {
			logging.Debug("  Media directory (absolute): %s", abs)
		}
	}
	return nil
}

// LogGenerated logs the result of a completed generation.
func LogGenerated(outputFile string, rootItems, warnings int, duration time.Duration) {
	logging.Info("------------------------------------------------------------")
	logging.Info("GENERATION COMPLETE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Output:          %s", outputFile)
	logging.Info("  Items in root:   %d", rootItems)
	if warnings > 0 {
		logging.Info("  Warnings:        %d", warnings)
	}
	logging.Info("  Duration:        %v", duration)
	logging.Info("")
}

// LogServerStarted logs the preview server endpoints.
func LogServerStarted(port string, metricsEnabled bool) {
	logging.Info("------------------------------------------------------------")
	logging.Info("PREVIEW SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Gallery:   http://localhost:%s/", port)
	logging.Info("  Tree API:  http://localhost:%s/api/tree", port)
	if metricsEnabled {
		logging.Info("  Metrics:   http://localhost:%s/metrics", port)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ____________   ______       ____
  / ____/ ____/  / ____/___ _/ / /__  _______  __
 / / __/ / __   / / __/ __ '/ / / _ \/ ___/ / / /
/ /_/ / /_/ /  / /_/ / /_/ / / /  __/ /  / /_/ /
\____/\____/   \____/\__,_/_/_/\___/_/   \__, /
                                        /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Go version: %s", GoVersion)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	default:
		logging.Warn("  Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
}
