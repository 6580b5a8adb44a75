package main

import (
	"os"
	"time"

	"gallery-gen/internal/gallery"
	"gallery-gen/internal/logging"
	"gallery-gen/internal/metrics"
	"gallery-gen/internal/output"
	"gallery-gen/internal/server"
	"gallery-gen/internal/startup"
)

func main() {
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, startup.GoVersion).Set(1)

	// A missing media root is the one condition that aborts the run
	// before anything is written.
	if err := startup.CheckMediaDir(config); err != nil {
		startup.LogFatal("%v", err)
	}

	logging.Info("Scanning directory: %q...", config.MediaDir)
	start := time.Now()

	tree, warnings := gallery.BuildRoot(config.MediaDir)
	for _, warning := range warnings {
		logging.Warn("%s", warning)
	}

	stats := tree.Count()
	metrics.RecordScan(time.Since(start).Seconds(), stats.Folders, stats.Images, stats.Videos, len(warnings))

	if err := output.Write(config.OutputFile, config.VarName, tree); err != nil {
		startup.LogFatal("%v", err)
	}
	if info, err := os.Stat(config.OutputFile); err == nil {
		metrics.OutputBytes.Set(float64(info.Size()))
	}

	startup.LogGenerated(config.OutputFile, len(tree.Children), len(warnings), time.Since(start).Round(time.Millisecond))

	if !config.Serve {
		return
	}

	srv := server.New(config, tree, warnings)
	if err := srv.Run(); err != nil {
		startup.LogFatal("Server error: %v", err)
	}
}
