package transpose

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// KeyPolicy decides what happens when a key name cannot be resolved.
type KeyPolicy int

const (
	// PassThrough leaves chords untransposed and logs a warning.
	PassThrough KeyPolicy = iota
	// Strict rejects the key with an error wrapping tonal.ErrUnknownKey.
	Strict
)

func (p KeyPolicy) String() string {
	switch p {
	case PassThrough:
		return "pass-through"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseKeyPolicy converts a config or flag value to a KeyPolicy.
func ParseKeyPolicy(name string) (KeyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pass-through", "passthrough", "lenient":
		return PassThrough, nil
	case "strict":
		return Strict, nil
	default:
		return PassThrough, fmt.Errorf("unknown key policy %q", name)
	}
}

// Option configures a Transposer.
type Option func(*Transposer)

// WithSpelling sets how transposed roots are spelled. Defaults to pitch.Sharp.
func WithSpelling(spelling pitch.Spelling) Option {
	return func(t *Transposer) { t.spelling = spelling }
}

// WithKeyPolicy sets the unresolvable-key behaviour. Defaults to PassThrough.
func WithKeyPolicy(policy KeyPolicy) Option {
	return func(t *Transposer) { t.policy = policy }
}

// WithDetection sets how Block finds free-standing chords.
func WithDetection(detection chart.Detection) Option {
	return func(t *Transposer) { t.detection = detection }
}

// WithLogger replaces the package logger.
func WithLogger(logger logging.Logger) Option {
	return func(t *Transposer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transposer moves chords from one key to another. It is immutable once
// built and safe for concurrent use.
type Transposer struct {
	source      tonal.Key
	target      tonal.Key
	sourceName  string
	targetName  string
	shift       int
	resolved    bool
	spelling    pitch.Spelling
	keySpelling pitch.Spelling
	policy      KeyPolicy
	detection   chart.Detection
	logger      logging.Logger
}

// New builds a Transposer from two key names such as "C", "G Major" or "F#m".
func New(source, target string, opts ...Option) (*Transposer, error) {
	t := newTransposer(opts)
	t.sourceName, t.targetName = source, target
	logger := t.logger.WithFields(logging.Fields{
		"source_key": source,
		"target_key": target,
	})

	sourceKey, sourceErr := tonal.ParseKey(source)
	targetKey, targetErr := tonal.ParseKey(target)
	if err := firstErr(sourceErr, targetErr); err != nil {
		if t.policy == Strict {
			return nil, fmt.Errorf("transpose %q to %q: %w", source, target, err)
		}
		logger.Warn("Key not recognised, leaving chords untransposed", logging.Fields{
			"error": err.Error(),
		})
		if sourceErr == nil {
			t.source = sourceKey
		}
		if targetErr == nil {
			t.target = targetKey
			t.keySpelling = targetKey.Spelling()
		}
		return t, nil
	}

	t.init(sourceKey, targetKey)
	logger.Debug("Transposer ready", logging.Fields{
		"shift":    t.shift,
		"spelling": t.spelling.String(),
	})
	return t, nil
}

// NewFromKeys builds a Transposer from keys that are already resolved.
func NewFromKeys(source, target tonal.Key, opts ...Option) *Transposer {
	t := newTransposer(opts)
	t.sourceName, t.targetName = source.String(), target.String()
	t.init(source, target)
	return t
}

func newTransposer(opts []Option) *Transposer {
	t := &Transposer{
		spelling:    pitch.Sharp,
		keySpelling: pitch.Sharp,
		logger: logging.WithFields(logging.Fields{
			"component": "transposer",
		}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transposer) init(source, target tonal.Key) {
	t.source = source
	t.target = target
	t.shift = semitones(source, target)
	t.keySpelling = target.Spelling()
	t.resolved = true
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Shift returns the number of semitones chords are moved up.
func (t *Transposer) Shift() int {
	return t.shift
}

// Resolved reports whether both keys were recognised. A PassThrough
// transposer built from an unknown key is not resolved and has a zero shift.
func (t *Transposer) Resolved() bool {
	return t.resolved
}

// Source returns the key chords are moved from. It is the zero Key when the
// source name was not recognised; SourceName keeps the name as given.
func (t *Transposer) Source() tonal.Key {
	return t.source
}

// Target returns the key chords are moved to. It is the zero Key when the
// target name was not recognised; TargetName keeps the name as given.
func (t *Transposer) Target() tonal.Key {
	return t.target
}

// SourceName returns the source key as it was passed to New.
func (t *Transposer) SourceName() string {
	return t.sourceName
}

// TargetName returns the target key as it was passed to New.
func (t *Transposer) TargetName() string {
	return t.targetName
}

// Symbol transposes one chord symbol. Unrecognised symbols come back unchanged.
func (t *Transposer) Symbol(symbol string) string {
	return transposeSymbol(symbol, t.shift, t.spelling, t.keySpelling)
}

// Symbols transposes a list of chord symbols, such as a song's chord badges,
// into a new slice.
func (t *Transposer) Symbols(symbols []string) []string {
	if symbols == nil {
		return nil
	}
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = t.Symbol(s)
	}
	return out
}

// Block transposes the chords of a multi-line chart, preserving its layout.
func (t *Transposer) Block(text string) string {
	if t.shift == 0 {
		return text
	}
	return chart.TransformBlock(text, t.detection, t.Symbol)
}

// Sheet transposes a structured chart into a new Sheet.
func (t *Transposer) Sheet(sheet *chart.Sheet) *chart.Sheet {
	if sheet == nil {
		return nil
	}
	return sheet.Transpose(t.Symbol)
}
