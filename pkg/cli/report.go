package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Fepozopo/imgcp/pkg/motion"
	"github.com/Fepozopo/imgcp/pkg/stdimg"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Report is the YAML record of one run.
type Report struct {
	RunID   string    `yaml:"runId"`
	Version string    `yaml:"version"`
	Created time.Time `yaml:"created"`
	Input   string    `yaml:"input"`
	Width   int       `yaml:"width"`
	Height  int       `yaml:"height"`
	Seed    int64     `yaml:"seed"`

	Steps  []Step        `yaml:"steps"`
	Motion *MotionReport `yaml:"motion,omitempty"`
}

// Step is one applied command. Stats and Summary are set only for intensity
// commands.
type Step struct {
	Command string           `yaml:"command"`
	Args    []string         `yaml:"args,flow,omitempty"`
	Stats   *stdimg.Snapshot `yaml:"stats,omitempty"`
	Summary *stdimg.Summary  `yaml:"summary,omitempty"`
}

// MotionReport summarizes a motion.Result.
type MotionReport struct {
	Target           string         `yaml:"target"`
	Options          motion.Options `yaml:"options"`
	AnchorBits       [3]float64     `yaml:"anchorBits,flow"`
	DiffBits         [3]float64     `yaml:"diffBits,flow"`
	ResidualBits     [3]float64     `yaml:"residualBits,flow"`
	CompressionRatio float64        `yaml:"compressionRatio"`
	DiffRatio        float64        `yaml:"diffRatio"`
	Blocks           int            `yaml:"blocks"`
}

// NewReport starts a report for input with a fresh run id.
func NewReport(input string, width, height int, seed int64) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Version: Version,
		Created: time.Now().UTC().Truncate(time.Second),
		Input:   input,
		Width:   width,
		Height:  height,
		Seed:    seed,
	}
}

// AddStep records a command and, when st is non-nil, its statistics.
func (r *Report) AddStep(command string, args []string, st *stdimg.StatTracker) error {
	step := Step{Command: command, Args: trimArgs(args)}
	if st != nil {
		snap := st.Snapshot()
		sum, err := st.Summary()
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", command, err)
		}
		step.Stats, step.Summary = &snap, &sum
	}
	r.Steps = append(r.Steps, step)
	return nil
}

// SetMotion records the outcome of a motion estimate against target.
func (r *Report) SetMotion(target string, res *motion.Result) {
	m := &MotionReport{
		Target:           target,
		Options:          res.Options,
		CompressionRatio: res.CompressionRatio(),
		DiffRatio:        res.DiffRatio(),
		Blocks:           len(res.Channels[0].Vectors),
	}
	for c, ch := range res.Channels {
		m.AnchorBits[c] = ch.AnchorBits
		m.DiffBits[c] = ch.DiffBits
		m.ResidualBits[c] = ch.ResidualBits
	}
	r.Motion = m
}

// WriteReport saves r as YAML.
func WriteReport(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

// ReadReport loads a report and rejects ones written by an incompatible version.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("error parsing report: %w", err)
	}
	if err := compatible(r.Version); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", r.RunID, err)
	}
	return &r, nil
}

// trimArgs drops trailing empty arguments left by NormalizeArgsFromStd.
func trimArgs(args []string) []string {
	n := len(args)
	for n > 0 && args[n-1] == "" {
		n--
	}
	if n == 0 {
		return nil
	}
	return append([]string(nil), args[:n]...)
}
