package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/algorithms/transpose"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/songbook/config"
)

// app carries the settings shared by every subcommand.
type app struct {
	configPath string
	spelling   string
	keyPolicy  string
	detection  string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "chordshift",
		Short:        "Transpose chord charts between keys",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.spelling, "spelling", "", "output spelling: sharp, flat, preserve or key")
	flags.StringVar(&a.keyPolicy, "key-policy", "", "unknown key handling: pass-through or strict")
	flags.StringVar(&a.detection, "detection", "", "free-text chord detection: tokens or chord-lines")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newTransposeCmd(a),
		newKeyCmd(a),
		newSongCmd(a),
	)
	return root
}

// setup reads the config file and environment, lets flags override them and
// validates the result.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Read(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, target *string, value string) {
		if flags.Changed(name) {
			*target = value
		}
	}
	override("spelling", &cfg.Spelling, a.spelling)
	override("key-policy", &cfg.KeyPolicy, a.keyPolicy)
	override("detection", &cfg.Detection, a.detection)
	override("log-level", &cfg.Log.Level, a.logLevel)
	override("log-format", &cfg.Log.Format, a.logFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := a.buildLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logging.SetGlobalLogger(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// buildLogger keeps stdout for command output: logs of either format go
// to stderr.
func (a *app) buildLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Log.Format), "json") {
		return logging.NewZapWriterLogger(stderr, level), nil
	}
	logger := logging.NewWriterLogger(stderr, stderr)
	logger.SetLevel(level)
	return logger, nil
}

// transposer builds a Transposer from the effective settings.
func (a *app) transposer(from, to string) (*transpose.Transposer, error) {
	spelling, err := a.cfg.SpellingValue()
	if err != nil {
		return nil, err
	}
	policy, err := a.cfg.KeyPolicyValue()
	if err != nil {
		return nil, err
	}
	detection, err := a.cfg.DetectionValue()
	if err != nil {
		return nil, err
	}
	return transpose.New(from, to,
		transpose.WithSpelling(spelling),
		transpose.WithKeyPolicy(policy),
		transpose.WithDetection(detection),
		transpose.WithLogger(a.logger),
	)
}

// readInput reads path, or the command's stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
