package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/skysurvey/nightsched/internal/database"
	"github.com/skysurvey/nightsched/internal/ephemsource"
	"github.com/skysurvey/nightsched/internal/log"
	"github.com/skysurvey/nightsched/internal/render"
	"github.com/skysurvey/nightsched/internal/server"
	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/config"
	"github.com/skysurvey/nightsched/pkg/night"
	"github.com/skysurvey/nightsched/pkg/schedule"
)

// Options controls a single scheduling invocation.
type Options struct {
	Start   time.Time
	End     time.Time
	Format  string // csv, ical, or html
	Output  string // output path, empty for stdout
	Summary bool
	Archive bool
	Serve   bool
}

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run builds the schedule for the configured date range and dispatches it
// to the requested outputs, blocking until the server (if any) shuts down.
func (a *App) Run(ctx context.Context, opts Options) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	source, err := ephemsource.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing ephemeris source: %w", err)
	}

	nights, err := a.buildSchedule(ctx, cfg, source, opts, loc)
	if err != nil {
		return err
	}
	log.Infof("classified %d nights from %s to %s", len(nights),
		opts.Start.Format("2006-01-02"), opts.End.Format("2006-01-02"))

	if opts.Format != "" {
		if err := a.renderSchedule(cfg, nights, opts); err != nil {
			return err
		}
	}

	if opts.Summary {
		a.logSummary(nights)
	}

	if opts.Archive {
		if cfg.Storage.TimescaleDB == nil {
			return fmt.Errorf("archive requested but no timescaledb storage configured")
		}
		client := database.NewClient(cfg, a.logger)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("connecting to schedule archive: %w", err)
		}
		if err := client.SaveNights(nights); err != nil {
			return fmt.Errorf("archiving schedule: %w", err)
		}
		log.Infof("archived %d nights", len(nights))
	}

	if opts.Serve {
		if cfg.Server == nil {
			return fmt.Errorf("serve requested but no server section configured")
		}
		srv := server.New(cfg, nights, a.logger)

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return err
		}
		log.Info("shutdown complete")
	}

	return nil
}

// buildSchedule walks the date range one night at a time, classifying each
// record and threading the run accumulator through the sequence. A night
// whose record cannot be classified breaks any active run.
func (a *App) buildSchedule(ctx context.Context, cfg *config.ConfigData, source ephemsource.Source, opts Options, loc *time.Location) ([]types.ScheduleNight, error) {
	nightCfg := cfg.NightConfig()
	acc := schedule.NewAccumulator(nightCfg.MinimumInterval)

	start := midnightIn(opts.Start, loc)
	end := midnightIn(opts.End, loc)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var nights []types.ScheduleNight
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := source.Night(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("ephemeris for %s: %w", date.Format("2006-01-02"), err)
		}

		class, err := night.Classify(rec, nightCfg)
		if err != nil {
			log.Warnf("skipping %s: %v", date.Format("2006-01-02"), err)
			acc.Advance(0)
			continue
		}

		nights = append(nights, types.ScheduleNight{
			Date:   date,
			Record: rec,
			Class:  class,
			Runs:   acc.Advance(class.DarkDuration()),
		})
	}
	return nights, nil
}

func (a *App) renderSchedule(cfg *config.ConfigData, nights []types.ScheduleNight, opts Options) error {
	var out io.Writer = os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.Format {
	case "csv":
		return render.WriteCSV(out, nights)
	case "ical":
		return render.WriteICS(out, nights, cfg.Site.Name+" dark runs")
	case "html":
		return render.WriteHTML(out, nights, cfg.Site.Name+" observing schedule")
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// logSummary reports aggregate dark-time statistics over the range.
func (a *App) logSummary(nights []types.ScheduleNight) {
	if len(nights) == 0 {
		log.Info("summary: no nights in range")
		return
	}

	darkHours := make([]float64, 0, len(nights))
	darkNights := 0
	for i := range nights {
		h := nights[i].Class.DarkDuration().Hours()
		darkHours = append(darkHours, h)
		if nights[i].IsDark() {
			darkNights++
		}
	}
	sort.Float64s(darkHours)

	mean, std := stat.MeanStdDev(darkHours, nil)
	median := stat.Quantile(0.5, stat.Empirical, darkHours, nil)

	log.Infof("summary: %d nights, %d in dark runs", len(nights), darkNights)
	log.Infof("summary: dark time mean %.2fh stddev %.2fh median %.2fh min %.2fh max %.2fh",
		mean, std, median, darkHours[0], darkHours[len(darkHours)-1])
}

// midnightIn truncates t to local midnight in the site timezone.
func midnightIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
