// Package pipeline runs tower solves for the CLI and the HTTP API.
//
// This package wraps the hanoi solver with the concerns every entry point
// shares: option validation, result caching, timing, verification,
// observability hooks and logging. By centralizing this logic, the CLI
// and the API report identical results for identical configurations.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Solve(ctx, pipeline.Options{
//	    Rings:       20,
//	    Pegs:        3,
//	    Source:      0,
//	    Destination: 2,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Moves) // 1048575
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/hanoi"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultRings is the benchmark tower: 32 rings, 2^32 - 1 moves.
	DefaultRings = 32

	// DefaultPegs is the classic three-peg puzzle.
	DefaultPegs = 3

	// DefaultSource is the peg the tower starts on.
	DefaultSource = 0

	// DefaultDestination is the peg the tower must end on.
	DefaultDestination = 2

	// MaxTableRings is the largest tower the CLI draws as a peg table.
	MaxTableRings = 12
)

// Format constants for result output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// =============================================================================
// Options - Solve Configuration
// =============================================================================

// Options describes one solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	Rings       int  `json:"rings"`
	Pegs        int  `json:"pegs,omitempty"`
	Source      int  `json:"source"`
	Destination int  `json:"destination"`
	Refresh     bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)

	// Observer, when set, receives every move. It forces a fresh solve
	// because cached results carry no moves.
	Observer func(hanoi.Move[int]) `json:"-"`
	Logger   *log.Logger           `json:"-"`
}

// Result describes a verified solve.
type Result struct {
	ID          string        `json:"id"`
	Rings       int           `json:"rings"`
	Pegs        int           `json:"pegs"`
	Source      int           `json:"source"`
	Destination int           `json:"destination"`
	Auxiliary   int           `json:"auxiliary"`
	Moves       uint64        `json:"moves"`
	Expected    uint64        `json:"expected_moves"`
	Duration    time.Duration `json:"duration_ns"`
	SolvedAt    time.Time     `json:"solved_at"`
	Final       [][]int       `json:"final_pegs"`

	// Cached is set when the result was served from the cache.
	Cached bool `json:"cached"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in the peg count.
// Ring and peg limits are checked here; peg roles are checked when the
// puzzle is built so the solver reports them as configuration errors.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Pegs == 0 {
		o.Pegs = DefaultPegs
	}
	if err := errs.ValidateRingCount(o.Rings); err != nil {
		return err
	}
	if err := errs.ValidatePegCount(o.Pegs); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// String summarizes the options for log lines.
func (o Options) String() string {
	return fmt.Sprintf("%d rings, %d pegs, %d → %d", o.Rings, o.Pegs, o.Source, o.Destination)
}
