package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// defines interface for producing the final recitation video
type Composer interface {
	Compose(ctx context.Context, opts ComposeOptions) error
}

// holds the inputs of one composition
type ComposeOptions struct {
	Background string // still image, looped for the length of the audio
	Audio      string
	Subtitles  string // ASS document burned into the frames
	Output     string

	Title    string // drawn near the top, may contain newlines
	FontFile string
	FontSize int
}

// default implementation using ffmpeg
type FFmpegComposer struct {
	ffmpegPath string
}

func NewComposer(ffmpegPath string) *FFmpegComposer {
	return &FFmpegComposer{
		ffmpegPath: ffmpegPath,
	}
}

// renders the video, replacing any existing output file
func (c *FFmpegComposer) Compose(ctx context.Context, opts ComposeOptions) error {
	for _, input := range []string{opts.Background, opts.Audio, opts.Subtitles} {
		if _, err := os.Stat(input); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", input)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	outputDir := filepath.Dir(opts.Output)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Remove(opts.Output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous output: %w", err)
	}

	err := c.stream(opts).Run()
	if err != nil {
		return fmt.Errorf("ffmpeg composition failed: %w", err)
	}

	return nil
}

func (c *FFmpegComposer) stream(opts ComposeOptions) *ffmpeg.Stream {
	image := ffmpeg.Input(opts.Background, ffmpeg.KwArgs{"loop": 1})
	audio := ffmpeg.Input(opts.Audio)

	frames := image.Video().Filter("subtitles", ffmpeg.Args{opts.Subtitles})
	if opts.Title != "" {
		drawArgs := ffmpeg.KwArgs{
			"text":      opts.Title,
			"fontcolor": "white",
			"fontsize":  opts.FontSize,
			"x":         "(w-text_w)/2",
			"y":         "h/10",
		}
		if opts.FontFile != "" {
			drawArgs["fontfile"] = opts.FontFile
		}
		frames = frames.Filter("drawtext", ffmpeg.Args{}, drawArgs)
	}

	kwargs := ffmpeg.KwArgs{
		"shortest": "",
		"c:v":      "libx264",
		"c:a":      "aac",
		"pix_fmt":  "yuv420p",
	}

	out := ffmpeg.Output([]*ffmpeg.Stream{frames, audio.Audio()}, opts.Output, kwargs).
		OverWriteOutput()
	if c.ffmpegPath != "" {
		out = out.SetFfmpegPath(c.ffmpegPath)
	}
	return out
}
