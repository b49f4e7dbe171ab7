package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrProbe is wrapped by every ProbeError.
var ErrProbe = errors.New("duration probe failed")

// ProbeError reports a segment whose duration could not be measured.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() []error {
	return []error{ErrProbe, e.Err}
}

// measures the duration of an audio segment
type Prober interface {
	// Probe returns the duration in seconds as a plain decimal string.
	Probe(path string) (string, error)
}

// joins the segments listed in a concat playlist into one file
type Concatenator interface {
	Concat(ctx context.Context, playlistPath, outputPath string) error
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober backed by the ffprobe binary
type FFprobe struct {
	Path string
}

func NewFFprobe(path string) *FFprobe {
	return &FFprobe{Path: path}
}

func (p *FFprobe) Probe(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &ProbeError{Path: path, Err: err}
	}

	cmd := exec.Command(p.Path,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", &ProbeError{Path: path, Err: fmt.Errorf("ffprobe failed: %w", err)}
	}

	duration, err := parseProbeOutput(out.Bytes())
	if err != nil {
		return "", &ProbeError{Path: path, Err: err}
	}
	return duration, nil
}

func parseProbeOutput(data []byte) (string, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	duration := strings.TrimSpace(probe.Format.Duration)
	seconds, err := strconv.ParseFloat(duration, 64)
	if err != nil {
		return "", fmt.Errorf("non-numeric duration %q", duration)
	}
	if seconds < 0 {
		return "", fmt.Errorf("negative duration %q", duration)
	}
	return duration, nil
}

// Concatenator backed by the ffmpeg concat demuxer
type FFmpegConcatenator struct {
	FFmpegPath string
}

func NewFFmpegConcatenator(ffmpegPath string) *FFmpegConcatenator {
	return &FFmpegConcatenator{FFmpegPath: ffmpegPath}
}

func (c *FFmpegConcatenator) Concat(
	ctx context.Context,
	playlistPath, outputPath string,
) error {
	if _, err := os.Stat(playlistPath); os.IsNotExist(err) {
		return fmt.Errorf("playlist not found: %s", playlistPath)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := c.stream(playlistPath, outputPath).Run(); err != nil {
		return fmt.Errorf("concatenation failed: %w", err)
	}

	return nil
}

func (c *FFmpegConcatenator) stream(playlistPath, outputPath string) *ffmpeg.Stream {
	inputArgs := ffmpeg.KwArgs{
		"f":    "concat",
		"safe": 0, // playlist holds absolute paths
	}

	out := ffmpeg.Input(playlistPath, inputArgs).
		Output(outputPath, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput()
	if c.FFmpegPath != "" {
		out = out.SetFfmpegPath(c.FFmpegPath)
	}
	return out
}

// recitation language of the audio clips
type Type string

const (
	TypeArabic  Type = "arabic"
	TypeEnglish Type = "english"
	TypeUrdu    Type = "urdu"
)

func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeArabic:
		return TypeArabic, nil
	case TypeEnglish:
		return TypeEnglish, nil
	case TypeUrdu:
		return TypeUrdu, nil
	default:
		return "", fmt.Errorf("unsupported audio type %q: use arabic, english, or urdu", s)
	}
}

// SegmentPath locates the clip for one verse, e.g. <dir>/arabic/002255.mp3.
func SegmentPath(audioDir string, audioType Type, surah, verse int, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	name := fmt.Sprintf("%03d%03d.%s", surah, verse, ext)
	return filepath.Join(audioDir, string(audioType), name)
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
	}
	return audioExts[ext]
}
