package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skysurvey/nightsched/internal/ephemsource"
	"github.com/skysurvey/nightsched/pkg/config"
)

func main() {
	var dateStr string
	var cfgFile string
	var asCSV bool
	var localTimes bool
	flag.StringVar(&dateStr, "date", "", "Night to compute events for (YYYY-MM-DD, default: today)")
	flag.StringVar(&cfgFile, "config", "config.yaml", "Path to YAML configuration (site coordinates and horizon angles)")
	flag.BoolVar(&asCSV, "csv", false, "Emit the record as a single CSV line")
	flag.BoolVar(&localTimes, "local", false, "Print event times in the site timezone instead of UTC")
	flag.Parse()

	filename, _ := filepath.Abs(cfgFile)
	cfg, err := config.NewYAMLProvider(filename).LoadConfig()
	if err != nil {
		// The built-in site still works with no config file present.
		cfg = config.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving site timezone: %v\n", err)
		os.Exit(1)
	}

	var date time.Time
	if dateStr == "" {
		date = time.Now().In(loc)
	} else {
		date, err = time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}

	source, err := ephemsource.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing ephemeris source: %v\n", err)
		os.Exit(1)
	}

	rec, err := source.Night(context.Background(), date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing night events: %v\n", err)
		os.Exit(1)
	}

	if asCSV {
		fmt.Println(rec.MarshalCSV())
		return
	}

	zone := time.UTC
	if localTimes {
		zone = loc
	}
	fmt.Printf("Night of %s at %s\n", date.Format("2006-01-02"), cfg.Site.Name)
	for _, ev := range rec.Events() {
		line := fmt.Sprintf("  %-8s %s", ev.Kind, ev.Time.In(zone).Format("2006-01-02 15:04:05 MST"))
		if ev.Fraction >= 0 {
			line += fmt.Sprintf("  illum %.1f%%", ev.Fraction*100)
		}
		line += fmt.Sprintf("  moon alt %+.1f°", ev.Altitude)
		fmt.Println(line)
	}
}
