package tonal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
)

// ErrNoChords is returned when a progression has no parseable chord.
var ErrNoChords = errors.New("no recognisable chords")

// KeyProfile represents different key detection profiles
type KeyProfile int

const (
	KeyProfileKrumhansl KeyProfile = iota
	KeyProfileTemperley
	KeyProfileDiatonic
)

// KeyProfileTemplate contains template for key profile
type KeyProfileTemplate struct {
	MajorProfile []float64 `json:"major_profile"`
	MinorProfile []float64 `json:"minor_profile"`
	Name         string    `json:"name"`
}

var keyProfiles = map[KeyProfile]*KeyProfileTemplate{
	// Krumhansl-Schmuckler profiles (empirically derived)
	KeyProfileKrumhansl: {
		MajorProfile: []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88},
		MinorProfile: []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17},
		Name:         "Krumhansl-Schmuckler",
	},
	// Temperley profiles (corpus-based)
	KeyProfileTemperley: {
		MajorProfile: []float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		MinorProfile: []float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
		Name:         "Temperley",
	},
	// Simple diatonic scale weights
	KeyProfileDiatonic: {
		MajorProfile: []float64{5.0, 0.0, 3.0, 0.0, 4.0, 3.5, 0.0, 4.5, 0.0, 3.0, 0.0, 2.0},
		MinorProfile: []float64{5.0, 0.0, 3.0, 3.5, 0.0, 3.5, 0.0, 4.5, 3.0, 0.0, 2.0, 0.0},
		Name:         "Diatonic",
	},
}

// KeyEstimationParams contains parameters for key estimation
type KeyEstimationParams struct {
	Profile       KeyProfile `json:"profile"`
	MaxCandidates int        `json:"max_candidates"` // Maximum candidates to return
	RootWeight    float64    `json:"root_weight"`    // Extra weight on each chord root
	BassWeight    float64    `json:"bass_weight"`    // Weight of a slash-chord bass note
	CadenceWeight float64    `json:"cadence_weight"` // Extra weight on the final chord's root
}

// DefaultKeyEstimationParams returns the parameters used by NewKeyEstimator
func DefaultKeyEstimationParams() KeyEstimationParams {
	return KeyEstimationParams{
		Profile:       KeyProfileKrumhansl,
		MaxCandidates: 5,
		RootWeight:    1.0,
		BassWeight:    0.5,
		CadenceWeight: 1.0,
	}
}

// KeyCandidate represents a potential key with confidence
type KeyCandidate struct {
	Key         Key     `json:"key"`
	Correlation float64 `json:"correlation"` // Pearson correlation with the rotated profile
}

// KeyEstimationResult contains key estimation results for a progression
type KeyEstimationResult struct {
	Key         Key            `json:"key"`
	Correlation float64        `json:"correlation"`
	Clarity     float64        `json:"clarity"` // (best - second) / best
	Candidates  []KeyCandidate `json:"candidates"`
	RelatedKeys []KeyCandidate `json:"related_keys"` // candidates closely related to the best key
	PitchClass  []float64      `json:"pitch_class"`  // normalised pitch class profile of the progression
	KeyProfile  string         `json:"key_profile"`
	Chords      int            `json:"chords"`  // chords used
	Skipped     int            `json:"skipped"` // symbols that did not parse
}

// KeyEstimator infers the key of a chord progression by correlating its
// pitch class profile with rotated key profiles.
type KeyEstimator struct {
	params KeyEstimationParams
}

// NewKeyEstimator creates a key estimator with default parameters
func NewKeyEstimator() *KeyEstimator {
	return &KeyEstimator{params: DefaultKeyEstimationParams()}
}

// NewKeyEstimatorWithParams creates a key estimator with custom parameters
func NewKeyEstimatorWithParams(params KeyEstimationParams) *KeyEstimator {
	if params.MaxCandidates <= 0 {
		params.MaxCandidates = DefaultKeyEstimationParams().MaxCandidates
	}
	return &KeyEstimator{params: params}
}

// GetParameters returns the estimator's parameters
func (ke *KeyEstimator) GetParameters() KeyEstimationParams {
	return ke.params
}

// EstimateKey estimates the key of a chord progression
func (ke *KeyEstimator) EstimateKey(chords []string) (KeyEstimationResult, error) {
	profile, used, skipped := ke.pitchClassProfile(chords)
	if used == 0 {
		return KeyEstimationResult{Skipped: skipped}, ErrNoChords
	}

	template, ok := keyProfiles[ke.params.Profile]
	if !ok {
		template = keyProfiles[KeyProfileKrumhansl]
	}

	// Each lag k is the correlation with the profile rotated to tonic k.
	majorScores := common.CircularPearson(profile, template.MajorProfile)
	minorScores := common.CircularPearson(profile, template.MinorProfile)

	candidates := make([]KeyCandidate, 0, 2*pitch.Classes)
	for k := 0; k < pitch.Classes; k++ {
		candidates = append(candidates,
			KeyCandidate{Key: NewKey(pitch.PitchClass(k), KeyModeMajor), Correlation: majorScores[k]},
			KeyCandidate{Key: NewKey(pitch.PitchClass(k), KeyModeMinor), Correlation: minorScores[k]},
		)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Correlation > candidates[j].Correlation
	})

	best := candidates[0]
	result := KeyEstimationResult{
		Key:         best.Key,
		Correlation: best.Correlation,
		Clarity:     clarity(candidates),
		PitchClass:  profile,
		KeyProfile:  template.Name,
		Chords:      used,
		Skipped:     skipped,
	}

	for _, c := range candidates[1:] {
		if best.Key.IsRelated(c.Key) && len(result.RelatedKeys) < 3 {
			result.RelatedKeys = append(result.RelatedKeys, c)
		}
	}

	if len(candidates) > ke.params.MaxCandidates {
		candidates = candidates[:ke.params.MaxCandidates]
	}
	result.Candidates = candidates

	return result, nil
}

// pitchClassProfile accumulates chord tones into a normalised 12-bin profile.
func (ke *KeyEstimator) pitchClassProfile(chords []string) (profile []float64, used, skipped int) {
	bins := make([]float64, pitch.Classes)
	var last *Chord

	for _, symbol := range chords {
		chord, err := ParseChord(symbol)
		if err != nil {
			skipped++
			continue
		}
		for _, tone := range chord.Tones {
			bins[tone] += 1.0
		}
		bins[chord.Root] += ke.params.RootWeight
		if chord.HasBass {
			bins[chord.Bass] += ke.params.BassWeight
		}
		used++
		last = &chord
	}

	if last != nil {
		bins[last.Root] += ke.params.CadenceWeight
	}

	return common.SumNormalize(bins), used, skipped
}

func clarity(sorted []KeyCandidate) float64 {
	if len(sorted) < 2 || sorted[0].Correlation <= 0 {
		return 0.0
	}
	return (sorted[0].Correlation - sorted[1].Correlation) / sorted[0].Correlation
}

// GetSupportedProfiles returns the names of the available key profiles
func GetSupportedProfiles() []string {
	return []string{"krumhansl", "temperley", "diatonic"}
}

// ParseKeyProfile converts a profile name from GetSupportedProfiles.
func ParseKeyProfile(name string) (KeyProfile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "krumhansl":
		return KeyProfileKrumhansl, nil
	case "temperley":
		return KeyProfileTemperley, nil
	case "diatonic":
		return KeyProfileDiatonic, nil
	default:
		return KeyProfileKrumhansl, fmt.Errorf("unknown key profile %q", name)
	}
}
