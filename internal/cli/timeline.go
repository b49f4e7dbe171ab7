package cli

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/mgpai22/tilawa/internal/audio"
	"github.com/mgpai22/tilawa/internal/ffmpeg"
	"github.com/mgpai22/tilawa/internal/quran"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/timeline"
	"github.com/spf13/cobra"
)

const previewTextWidth = 48

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the subtitle timeline for a verse range",
	Long: `Probe the verse clips of a range and print the resulting cue timeline
without rendering a video.

Use --output to also write the ASS subtitle document, and --playlist to write
the ffmpeg concat playlist.

Examples:
  tilawa timeline --surah 1 --start-aya 1 --end-aya 7
  tilawa timeline --surah 36 --start-aya 1 --end-aya 12 --text-type arabic -o yasin.ass`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)

	addVerseFlags(timelineCmd)
	timelineCmd.Flags().String("playlist", "", "Write the concat playlist to this path")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	sel, err := readVerseFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	playlistPath, _ := cmd.Flags().GetString("playlist")

	binaries, err := ffmpeg.Resolve(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
	if err != nil {
		return err
	}
	lookup, err := quran.Open(cfg.Paths.TextsDir, sel.TextType)
	if err != nil {
		return fmt.Errorf("failed to load verse text: %w", err)
	}

	builder := newBuilder(cfg, sel, lookup, audio.NewFFprobe(binaries.FFprobe))

	var tl *timeline.Timeline
	if playlistPath != "" {
		tl, err = builder.Build(sel.Range, playlistPath)
	} else {
		tl, _, err = builder.Collect(sel.Range)
	}
	if err != nil {
		return fmt.Errorf("failed to build timeline: %w", err)
	}

	logger.Debugw("Timeline built", "verses", sel.Range.String(), "cues", len(tl.Cues))

	fmt.Println(renderTimeline(tl, isTerminal(os.Stdout)))
	fmt.Printf("Total: %s\n", tl.Total.String())

	if outputPath != "" {
		writer := &subtitle.ASSWriter{
			FontName: cfg.Subtitle.FontName,
			FontSize: cfg.Subtitle.FontSize,
		}
		if err := writer.Write(tl.Cues, outputPath); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
		fmt.Printf("Subtitles written: %s\n", outputPath)
	}

	return nil
}

func renderTimeline(tl *timeline.Timeline, styled bool) string {
	tw := table.NewWriter()
	if styled {
		tw.SetStyle(table.StyleRounded)
	}

	tw.AppendHeader(table.Row{"#", "Verse", "Start", "End", "Duration", "Text"})
	for i, cue := range tl.Cues {
		seg := tl.Segments[i]
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(seg.Verse),
			cue.Start,
			cue.End,
			seg.Duration.String(),
			truncateRunes(cue.Text, previewTextWidth),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
