package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/chapters"
	"github.com/ericyan/omnislider/internal/timefmt"
)

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <audio-file>",
		Short: "Print the chapter segments of an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cues, duration, err := chapters.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printSegments(cmd.OutOrStdout(), chapters.Build(cues), duration.Seconds())
		},
	}
}

func printSegments(w io.Writer, segments []chapters.Cue, duration float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "#\tSTART\tEND\tTITLE\n")
	for i, seg := range segments {
		title := seg.Label
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, timefmt.FormatSeconds(seg.StartTime), timefmt.FormatSeconds(seg.EndTime), title)
	}
	if len(segments) == 0 {
		fmt.Fprintf(tw, "-\t%s\t%s\t(no chapters)\n", timefmt.FormatSeconds(0), timefmt.FormatSeconds(duration))
	}

	return tw.Flush()
}

// loadChapters reads the chapters of an audio file for a player that
// does not report any.
func loadChapters(cmd *cobra.Command, path string) ([]omnislider.Chapter, error) {
	cues, _, err := chapters.LoadFile(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	chs := make([]omnislider.Chapter, 0, len(cues))
	for _, c := range cues {
		chs = append(chs, omnislider.Chapter{
			Title:     c.Label,
			StartTime: timefmt.Seconds(c.StartTime),
			EndTime:   timefmt.Seconds(c.EndTime),
		})
	}

	return chs, nil
}
