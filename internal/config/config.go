package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	EnvFFmpegPath  = "TILAWA_FFMPEG_PATH"
	EnvFFprobePath = "TILAWA_FFPROBE_PATH"
)

// Paths contains the resource and output directories.
type Paths struct {
	AudioDir       string `toml:"audio_dir"`
	BackgroundsDir string `toml:"backgrounds_dir"`
	TextsDir       string `toml:"texts_dir"`
	FontsDir       string `toml:"fonts_dir"`
	OutputDir      string `toml:"output_dir"`
	WorkDir        string `toml:"work_dir"`
}

// Media contains external tool settings.
type Media struct {
	FFmpegPath     string `toml:"ffmpeg_path"`
	FFprobePath    string `toml:"ffprobe_path"`
	AudioExtension string `toml:"audio_extension"`
}

// Subtitle contains the ASS style settings.
type Subtitle struct {
	FontName string `toml:"font_name"`
	FontSize int    `toml:"font_size"`
}

// Video contains settings for the composed output.
type Video struct {
	OutputName string `toml:"output_name"`
	FontFile   string `toml:"font_file"`
	FontSize   int    `toml:"font_size"`
	WrapWidth  int    `toml:"wrap_width"`
}

// Timeline contains cue timing settings.
type Timeline struct {
	CumulativeEnd bool `toml:"cumulative_end"`
}

// Config encapsulates all configuration values for tilawa.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Media    Media    `toml:"media"`
	Subtitle Subtitle `toml:"subtitle"`
	Video    Video    `toml:"video"`
	Timeline Timeline `toml:"timeline"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:       "resources/audios",
			BackgroundsDir: "resources/backgrounds",
			TextsDir:       "resources/texts",
			FontsDir:       "resources/fonts",
			OutputDir:      "generated-videos",
		},
		Media: Media{
			AudioExtension: "mp3",
		},
		Subtitle: Subtitle{
			FontName: "Noto Naskh Arabic",
			FontSize: 18,
		},
		Video: Video{
			OutputName: "output.mp4",
			FontFile:   "arabic.ttf",
			FontSize:   50,
			WrapWidth:  30,
		},
	}
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tilawa/config.toml")
}

// Load reads .env from the working directory, then locates, parses, and
// validates a configuration file. A missing file yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tilawa.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) applyEnv() {
	if c.Media.FFmpegPath == "" {
		c.Media.FFmpegPath = os.Getenv(EnvFFmpegPath)
	}
	if c.Media.FFprobePath == "" {
		c.Media.FFprobePath = os.Getenv(EnvFFprobePath)
	}
}

func (c *Config) normalize() error {
	dirs := []*string{
		&c.Paths.AudioDir,
		&c.Paths.BackgroundsDir,
		&c.Paths.TextsDir,
		&c.Paths.FontsDir,
		&c.Paths.OutputDir,
		&c.Paths.WorkDir,
	}
	for _, dir := range dirs {
		expanded, err := expandPath(strings.TrimSpace(*dir))
		if err != nil {
			return err
		}
		*dir = expanded
	}

	c.Media.FFmpegPath = strings.TrimSpace(c.Media.FFmpegPath)
	c.Media.FFprobePath = strings.TrimSpace(c.Media.FFprobePath)
	c.Media.AudioExtension = strings.TrimPrefix(strings.TrimSpace(c.Media.AudioExtension), ".")
	c.Subtitle.FontName = strings.TrimSpace(c.Subtitle.FontName)
	c.Video.OutputName = strings.TrimSpace(c.Video.OutputName)
	c.Video.FontFile = strings.TrimSpace(c.Video.FontFile)
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Paths.AudioDir == "":
		return errors.New("paths.audio_dir is required")
	case c.Paths.OutputDir == "":
		return errors.New("paths.output_dir is required")
	case c.Media.AudioExtension == "":
		return errors.New("media.audio_extension is required")
	case c.Subtitle.FontName == "":
		return errors.New("subtitle.font_name is required")
	case c.Subtitle.FontSize <= 0:
		return fmt.Errorf("subtitle.font_size must be positive, got %d", c.Subtitle.FontSize)
	case c.Video.OutputName == "":
		return errors.New("video.output_name is required")
	case c.Video.FontSize <= 0:
		return fmt.Errorf("video.font_size must be positive, got %d", c.Video.FontSize)
	case c.Video.WrapWidth <= 0:
		return fmt.Errorf("video.wrap_width must be positive, got %d", c.Video.WrapWidth)
	}
	return nil
}

// OutputPath is the composed video location.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Paths.OutputDir, c.Video.OutputName)
}

// FontPath is the drawtext font location.
func (c *Config) FontPath() string {
	if c.Video.FontFile == "" || filepath.IsAbs(c.Video.FontFile) {
		return c.Video.FontFile
	}
	return filepath.Join(c.Paths.FontsDir, c.Video.FontFile)
}

// BackgroundPath resolves a background name inside backgrounds_dir.
func (c *Config) BackgroundPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.BackgroundsDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
