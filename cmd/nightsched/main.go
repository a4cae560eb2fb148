package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skysurvey/nightsched/internal/app"
	"github.com/skysurvey/nightsched/internal/constants"
	"github.com/skysurvey/nightsched/internal/log"
	"github.com/skysurvey/nightsched/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	startDate := flag.String("start", "", "First night of the range (YYYY-MM-DD)")
	endDate := flag.String("end", "", "Last night of the range (YYYY-MM-DD)")
	format := flag.String("format", "csv", "Output format: csv, ical, or html")
	output := flag.String("output", "", "Output file (default: stdout)")
	summary := flag.Bool("summary", false, "Log dark-time summary statistics for the range")
	archive := flag.Bool("archive", false, "Save the schedule to the configured TimescaleDB archive")
	serve := flag.Bool("serve", false, "Serve the schedule over HTTP after building it")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("nightsched %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	start, end, err := parseRange(*startDate, *endDate)
	if err != nil {
		log.Errorf("Invalid date range: %v", err)
		os.Exit(1)
	}

	provider, err := makeProvider(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	application := app.New(provider, log.GetSugaredLogger())
	opts := app.Options{
		Start:   start,
		End:     end,
		Format:  *format,
		Output:  *output,
		Summary: *summary,
		Archive: *archive,
		Serve:   *serve,
	}
	if err := application.Run(context.Background(), opts); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

// parseRange parses the -start/-end flags, defaulting to the next 30 nights.
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	now := time.Now()
	start := now
	end := now.AddDate(0, 0, 30)
	var err error

	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return start, end, fmt.Errorf("parsing -start: %w", err)
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return start, end, fmt.Errorf("parsing -end: %w", err)
		}
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("-end %s precedes -start %s", endStr, startStr)
	}
	return start, end, nil
}

func makeProvider(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	switch cfgBackend {
	case "yaml":
		return config.NewYAMLProvider(filename), nil
	case "sqlite":
		provider, err := config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
}
