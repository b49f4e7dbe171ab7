package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/tilawa/internal/audio"
	"github.com/mgpai22/tilawa/internal/ffmpeg"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/timecode"
	"github.com/spf13/cobra"
)

var clipCmd = &cobra.Command{
	Use:   "clip [audio_file]",
	Short: "Write a single-cue subtitle spanning one audio clip",
	Long: `Probe one audio clip and write an ASS document holding a single cue that
lasts for the whole clip.

Examples:
  tilawa clip resources/audios/arabic/001001.mp3 --text "In the name of Allah"
  tilawa clip verse.mp3 -t "..." -o verse.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)

	clipCmd.Flags().StringP("text", "t", "", "Subtitle text")
}

func runClip(cmd *cobra.Command, args []string) error {
	clipPath := args[0]

	if _, err := os.Stat(clipPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", clipPath)
	}
	if !audio.IsAudioFile(clipPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio file)", filepath.Ext(clipPath))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = "output.ass"
	}

	binaries, err := ffmpeg.Resolve(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
	if err != nil {
		return err
	}

	raw, err := audio.NewFFprobe(binaries.FFprobe).Probe(clipPath)
	if err != nil {
		return err
	}
	duration, err := timecode.Parse(raw)
	if err != nil {
		return err
	}

	logger.Infow("Clip probed", "input", clipPath, "duration", timecode.FormatMillisecond(duration))

	writer := &subtitle.ASSWriter{
		FontName: cfg.Subtitle.FontName,
		FontSize: cfg.Subtitle.FontSize,
	}
	if err := writer.Write([]subtitle.Cue{subtitle.SingleClip(text, duration)}, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitle generated successfully: %s\n", absOutput)
	return nil
}
