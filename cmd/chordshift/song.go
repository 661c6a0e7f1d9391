package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/songbook"
	"github.com/RyanBlaney/sonido-chords/songbook/store"
)

func newSongCmd(a *app) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "song",
		Short: "Browse and render songs from a songbook database",
	}
	cmd.PersistentFlags().StringVar(&database, "db", "", "songbook SQLite file (default from config)")

	openStore := func() (*store.Store, error) {
		path := database
		if path == "" {
			path = a.cfg.Database
		}
		return store.Open(path)
	}

	cmd.AddCommand(
		newSongShowCmd(a, openStore),
		newSongListCmd(openStore),
	)
	return cmd
}

func newSongShowCmd(a *app, openStore func() (*store.Store, error)) *cobra.Command {
	var (
		to     string
		over   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a stored song, optionally in another key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid song id %q: %w", args[0], err)
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			song, err := s.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			renderer, err := songbook.NewRenderer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			view, err := renderer.Render(song, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, view)
			}

			fmt.Fprintf(out, "%s - %s\n", view.Title, view.Artist)
			keyLine := "Key: " + view.TargetKey
			if view.Transposed {
				keyLine += fmt.Sprintf(" (from %s, +%d)", view.SourceKey, view.Shift)
			}
			if view.KeyInferred {
				keyLine += " [inferred]"
			}
			fmt.Fprintln(out, keyLine)
			if len(view.Chords) > 0 {
				fmt.Fprintf(out, "Chords: %v\n", view.Chords)
			}
			fmt.Fprintln(out)

			lyrics := view.Lyrics
			if over && view.Sections != nil {
				lyrics = view.Sections.ChordsOverLyrics()
			}
			fmt.Fprintln(out, lyrics)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "key to render in (default the song's key)")
	cmd.Flags().BoolVar(&over, "over", false, "print structured sections as chords above lyrics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rendered view as JSON")
	return cmd
}

func newSongListCmd(openStore func() (*store.Store, error)) *cobra.Command {
	var filter store.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List songs by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			page, err := s.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, song := range page.Songs {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", song.ID, song.Title, song.Artist, song.KeySignature)
			}
			if page.HasMore() {
				fmt.Fprintf(out, "... %d more, use --offset %d\n", page.Total-page.Offset-len(page.Songs), page.Offset+len(page.Songs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "title or artist substring")
	cmd.Flags().StringVar(&filter.Artist, "artist", "", "artist substring")
	cmd.Flags().IntVar(&filter.Limit, "limit", store.DefaultLimit, "page size")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "songs to skip")
	return cmd
}
