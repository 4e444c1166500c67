// Package config loads scenario definitions from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/npi-lab/go-npiregress"
	"github.com/npi-lab/go-npiregress/intervention"
	"gopkg.in/yaml.v3"
)

const DateLayout = "2006-01-02"

var (
	ErrNoScenarios      = errors.New("config defines no scenarios")
	ErrMissingStartDate = errors.New("holidays require a start_date")
	ErrInvalidStartDate = errors.New("start_date must be formatted as YYYY-MM-DD")
	ErrDuplicateName    = errors.New("scenario name used more than once")
	ErrInvalidName      = errors.New("scenario name must not contain path separators")
)

// File is the top level of a scenario config
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario mirrors npiregress.Options. Omitted baseline rates and periods take the package
// defaults.
type Scenario struct {
	Name          string         `yaml:"name"`
	BaselineRate  *float64       `yaml:"baseline_rate,omitempty"`
	Period        *int           `yaml:"period,omitempty"`
	StartDate     string         `yaml:"start_date,omitempty"`
	RankTolerance float64        `yaml:"rank_tolerance,omitempty"`
	Interventions []Intervention `yaml:"interventions"`
	Holidays      []Holiday      `yaml:"holidays,omitempty"`

	// Horizon bounds the days searched for holidays. When omitted the last day of the
	// explicit interventions is used.
	Horizon int `yaml:"horizon,omitempty"`
}

type Intervention struct {
	Name   string  `yaml:"name,omitempty"`
	Start  int     `yaml:"start"`
	End    int     `yaml:"end"`
	Factor float64 `yaml:"factor"`
}

// Holiday expands into one intervention per occurrence of a US holiday in the horizon
type Holiday struct {
	Name       string  `yaml:"name"`
	DaysBefore int     `yaml:"days_before"`
	DaysAfter  int     `yaml:"days_after"`
	Factor     float64 `yaml:"factor"`
}

// Load reads and parses a config file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a config rejecting unknown fields
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoScenarios
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	return &f, nil
}

// ValidName reports whether a scenario name can be used as an output file name. Empty names
// are allowed.
func ValidName(name string) error {
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%q, %w", name, ErrInvalidName)
	}
	return nil
}

// Options converts every scenario into options ready for npiregress.New. Scenarios are
// converted in order and the first failure is returned. Non-empty names must be unique.
func (f *File) Options() ([]*npiregress.Options, error) {
	opts := make([]*npiregress.Options, 0, len(f.Scenarios))
	seen := make(map[string]struct{}, len(f.Scenarios))
	for i, s := range f.Scenarios {
		if err := ValidName(s.Name); err != nil {
			return nil, fmt.Errorf("scenario %d, %w", i+1, err)
		}
		if s.Name != "" {
			if _, exists := seen[s.Name]; exists {
				return nil, fmt.Errorf("scenario %d %q, %w", i+1, s.Name, ErrDuplicateName)
			}
			seen[s.Name] = struct{}{}
		}
		opt, err := s.Options()
		if err != nil {
			return nil, fmt.Errorf("scenario %d %q, %w", i+1, s.Name, err)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// Options converts a single scenario, expanding holidays into interventions after the explicit
// ones
func (s Scenario) Options() (*npiregress.Options, error) {
	opt := npiregress.NewDefaultOptions()
	opt.Name = s.Name
	opt.RankTolerance = s.RankTolerance
	if s.BaselineRate != nil {
		opt.BaselineRate = *s.BaselineRate
	}
	if s.Period != nil {
		opt.Period = *s.Period
	}

	if s.StartDate != "" {
		start, err := time.Parse(DateLayout, s.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%s, %w", s.StartDate, ErrInvalidStartDate)
		}
		opt.StartDate = start
	}

	opt.Interventions = make([]intervention.Intervention, 0, len(s.Interventions))
	for _, iv := range s.Interventions {
		next, err := intervention.New(iv.Name, iv.Start, iv.End, iv.Factor)
		if err != nil {
			return nil, err
		}
		opt.Interventions = append(opt.Interventions, next)
	}

	if len(s.Holidays) == 0 {
		return opt, nil
	}
	if opt.StartDate.IsZero() {
		return nil, ErrMissingStartDate
	}

	horizon := s.Horizon
	if horizon == 0 {
		horizon = intervention.Horizon(opt.Interventions)
	}
	for _, h := range s.Holidays {
		hol, err := intervention.LookupHoliday(h.Name)
		if err != nil {
			return nil, err
		}
		ivs, err := intervention.Holiday(hol, opt.StartDate, horizon, h.DaysBefore, h.DaysAfter, h.Factor)
		if err != nil {
			return nil, err
		}
		opt.Interventions = append(opt.Interventions, ivs...)
	}
	return opt, nil
}

// FromOptions builds a config describing the given scenarios. Holiday interventions are
// written out as plain interventions.
func FromOptions(opts []*npiregress.Options) *File {
	f := &File{Scenarios: make([]Scenario, 0, len(opts))}
	for _, opt := range opts {
		baseline := opt.BaselineRate
		period := opt.Period
		s := Scenario{
			Name:          opt.Name,
			BaselineRate:  &baseline,
			Period:        &period,
			RankTolerance: opt.RankTolerance,
			Interventions: make([]Intervention, 0, len(opt.Interventions)),
		}
		if !opt.StartDate.IsZero() {
			s.StartDate = opt.StartDate.Format(DateLayout)
		}
		for _, iv := range opt.Interventions {
			s.Interventions = append(s.Interventions, Intervention{
				Name:   iv.Name(),
				Start:  iv.Start(),
				End:    iv.End(),
				Factor: iv.Factor(),
			})
		}
		f.Scenarios = append(f.Scenarios, s)
	}
	return f
}

// Write encodes the config as YAML
func (f *File) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return enc.Close()
}
