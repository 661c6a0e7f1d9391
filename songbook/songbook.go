// Package songbook renders stored songs in a listener's chosen key.
// Rendering is display-only: stored songs are never modified.
package songbook

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/algorithms/transpose"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/songbook/config"
)

// Song is a stored song as read from the database.
type Song struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Artist       string       `json:"artist"`
	KeySignature string       `json:"key_signature"`
	Chords       []string     `json:"chords"`
	Lyrics       string       `json:"lyrics"`
	Sections     *chart.Sheet `json:"lyrics_sections,omitempty"`
}

// View is a song prepared for display in a target key.
type View struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	SourceKey   string       `json:"source_key"`
	TargetKey   string       `json:"target_key"`
	Shift       int          `json:"shift"`
	KeyInferred bool         `json:"key_inferred"`
	Transposed  bool         `json:"transposed"`
	Chords      []string     `json:"chords"`
	Lyrics      string       `json:"lyrics"`
	Sections    *chart.Sheet `json:"lyrics_sections,omitempty"`
}

// Renderer turns songs into views using one set of transposition settings.
// It holds no per-song state and may be shared between goroutines.
type Renderer struct {
	options   []transpose.Option
	detection chart.Detection
	infer     bool
	estimator *tonal.KeyEstimator
	logger    logging.Logger
}

// NewRenderer builds a Renderer from validated settings. A nil cfg uses
// config.Default and a nil logger uses the package logger.
func NewRenderer(cfg *config.Config, logger logging.Logger) (*Renderer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	spelling, err := cfg.SpellingValue()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.KeyPolicyValue()
	if err != nil {
		return nil, err
	}
	detection, err := cfg.DetectionValue()
	if err != nil {
		return nil, err
	}

	logger = logger.WithFields(logging.Fields{
		"component": "songbook_renderer",
	})

	return &Renderer{
		options: []transpose.Option{
			transpose.WithSpelling(spelling),
			transpose.WithKeyPolicy(policy),
			transpose.WithDetection(detection),
			transpose.WithLogger(logger),
		},
		detection: detection,
		infer:     cfg.InferMissingKey,
		estimator: tonal.NewKeyEstimator(),
		logger:    logger,
	}, nil
}

// Render prepares song for display in targetKey. An empty targetKey keeps
// the song's own key. When the stored key signature cannot be read and key
// inference is enabled, the key is estimated from the song's chords.
// Structured sections, when present, are transposed instead of the plain
// lyrics.
func (r *Renderer) Render(song Song, targetKey string) (View, error) {
	logger := r.logger.WithFields(logging.Fields{
		"song_id":    song.ID,
		"target_key": targetKey,
	})

	view := View{
		ID:     song.ID,
		Title:  song.Title,
		Artist: song.Artist,
	}

	sourceKey := song.KeySignature
	if _, err := tonal.ParseKey(sourceKey); err != nil && r.infer {
		if estimated, ok := r.inferKey(song, logger); ok {
			sourceKey = estimated
			view.KeyInferred = true
		}
	}
	if targetKey == "" {
		targetKey = sourceKey
	}

	t, err := transpose.New(sourceKey, targetKey, r.options...)
	if err != nil {
		return View{}, fmt.Errorf("render song %d: %w", song.ID, err)
	}

	view.SourceKey = sourceKey
	view.TargetKey = targetKey
	view.Shift = t.Shift()
	view.Transposed = t.Resolved() && t.Shift() != 0

	view.Chords = t.Symbols(song.Chords)
	if song.Sections != nil {
		view.Sections = t.Sheet(song.Sections)
		view.Lyrics = view.Sections.String()
		if len(view.Chords) == 0 {
			view.Chords = view.Sections.Chords()
		}
	} else {
		view.Lyrics = t.Block(song.Lyrics)
		if len(view.Chords) == 0 {
			view.Chords = chart.ChordsInBlock(view.Lyrics, r.detection)
		}
	}

	logger.Debug("Song rendered", logging.Fields{
		"source_key": view.SourceKey,
		"shift":      view.Shift,
		"inferred":   view.KeyInferred,
	})
	return view, nil
}

func (r *Renderer) inferKey(song Song, logger logging.Logger) (string, bool) {
	chords := song.Chords
	if len(chords) == 0 {
		if song.Sections != nil {
			chords = song.Sections.Chords()
		} else {
			chords = chart.ChordsInBlock(song.Lyrics, r.detection)
		}
	}

	result, err := r.estimator.EstimateKey(chords)
	if err != nil {
		if !errors.Is(err, tonal.ErrNoChords) {
			logger.Error(err, "Key estimation failed")
		}
		return "", false
	}

	logger.Info("Key inferred from chords", logging.Fields{
		"stored_key":  song.KeySignature,
		"key":         result.Key.String(),
		"correlation": result.Correlation,
		"clarity":     result.Clarity,
	})
	return result.Key.String(), true
}
