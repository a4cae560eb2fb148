package ephemsource

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/skysurvey/nightsched/pkg/ephemeris"
)

// ExecSource invokes an external ephemeris generator once per night and
// parses its CSV output. The generator is invoked with `-cl YEAR MONTH DAY`
// and emits the record on the first line of stdout.
type ExecSource struct {
	path string
}

// NewExecSource builds a source around the generator binary at path.
func NewExecSource(path string) (*ExecSource, error) {
	if path == "" {
		return nil, fmt.Errorf("ephemeris generator path is empty")
	}
	return &ExecSource{path: path}, nil
}

// Night runs the generator for one date and parses the resulting record.
func (s *ExecSource) Night(ctx context.Context, date time.Time) (*ephemeris.NightRecord, error) {
	year, month, day := date.Date()
	cmd := exec.CommandContext(ctx, s.path, "-cl",
		strconv.Itoa(year), strconv.Itoa(int(month)), strconv.Itoa(day))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ephemeris generator failed for %04d-%02d-%02d: %w (stderr: %s)",
			year, month, day, err, bytes.TrimSpace(stderr.Bytes()))
	}

	scanner := bufio.NewScanner(&stdout)
	if !scanner.Scan() {
		return nil, fmt.Errorf("ephemeris generator produced no output for %04d-%02d-%02d", year, month, day)
	}

	rec, err := ephemeris.ParseRecord(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("ephemeris output for %04d-%02d-%02d: %w", year, month, day, err)
	}
	return rec, nil
}
