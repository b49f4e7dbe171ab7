package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mgpai22/tilawa/internal/audio"
	"github.com/mgpai22/tilawa/internal/ffmpeg"
	"github.com/mgpai22/tilawa/internal/quran"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/video"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a recitation video for a verse range",
	Long: `Generate a short recitation video for a range of verses.

The per-verse audio clips are concatenated in order, one subtitle cue is timed
per verse from the clip durations, and the result is rendered over a looped
background image with the surah name drawn on top.

Examples:
  tilawa generate --surah 1 --start-aya 1 --end-aya 7
  tilawa generate --surah 112 --start-aya 1 --end-aya 4 --text-type english --bg night.jpg
  tilawa generate --surah 2 --start-aya 255 --end-aya 255 --audio-type urdu -o ayat-al-kursi.mp4`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addVerseFlags(generateCmd)
	generateCmd.Flags().
		String("bg", "desert.jpg", "Background image (name inside backgrounds_dir or a path)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sel, err := readVerseFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bg, _ := cmd.Flags().GetString("bg")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = cfg.OutputPath()
	}
	background := cfg.BackgroundPath(bg)
	if _, err := os.Stat(background); os.IsNotExist(err) {
		return fmt.Errorf("background not found: %s", background)
	}

	log := logger.With("run_id", uuid.NewString())
	log.Infow("Starting video generation",
		"verses", sel.Range.String(),
		"audio_type", sel.AudioType,
		"text_type", sel.TextType,
		"background", background,
		"output", outputPath,
	)

	binaries, err := ffmpeg.Resolve(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(outputDir, ".tilawa.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another tilawa run is writing to %s", outputDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if cfg.Paths.WorkDir != "" {
		if err := os.MkdirAll(cfg.Paths.WorkDir, 0755); err != nil {
			return fmt.Errorf("failed to create work directory: %w", err)
		}
	}
	tempDir, err := os.MkdirTemp(cfg.Paths.WorkDir, "tilawa-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	lookup, err := quran.Open(cfg.Paths.TextsDir, sel.TextType)
	if err != nil {
		return fmt.Errorf("failed to load verse text: %w", err)
	}

	builder := newBuilder(cfg, sel, lookup, audio.NewFFprobe(binaries.FFprobe))
	playlistPath := filepath.Join(tempDir, "mp3files.txt")

	log.Infow("Building timeline")
	tl, err := builder.Build(sel.Range, playlistPath)
	if err != nil {
		return fmt.Errorf("failed to build timeline: %w", err)
	}
	if len(tl.Cues) == 0 {
		return fmt.Errorf("verse range %s is empty, nothing to render", sel.Range)
	}

	log.Infow("Timeline built",
		"cues", len(tl.Cues),
		"duration", tl.Total.String(),
	)

	audioPath := filepath.Join(tempDir, "audio."+cfg.Media.AudioExtension)
	log.Infow("Concatenating audio", "segments", len(tl.Segments))
	concatenator := audio.NewFFmpegConcatenator(binaries.FFmpeg)
	if err := concatenator.Concat(ctx, playlistPath, audioPath); err != nil {
		return fmt.Errorf("failed to concatenate audio: %w", err)
	}

	subtitlePath := filepath.Join(tempDir, "subtitle.ass")
	writer := &subtitle.ASSWriter{
		FontName: cfg.Subtitle.FontName,
		FontSize: cfg.Subtitle.FontSize,
	}
	if err := writer.Write(tl.Cues, subtitlePath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	title := videoTitle(cfg, surahTitle(cfg, lookup, sel.Range.Surah), sel.Range)

	log.Infow("Composing video")
	composer := video.NewComposer(binaries.FFmpeg)
	err = composer.Compose(ctx, video.ComposeOptions{
		Background: background,
		Audio:      audioPath,
		Subtitles:  subtitlePath,
		Output:     outputPath,
		Title:      title,
		FontFile:   cfg.FontPath(),
		FontSize:   cfg.Video.FontSize,
	})
	if err != nil {
		return fmt.Errorf("failed to compose video: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Video generated successfully: %s\n", absOutput)
	fmt.Printf("  Verses: %s\n", sel.Range)
	fmt.Printf("  Cues: %d\n", len(tl.Cues))
	fmt.Printf("  Duration: %s\n", tl.Total.String())

	return nil
}
