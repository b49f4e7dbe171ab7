package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Advanced SubStation Alpha document writer
type ASSWriter struct {
	FontName string
	FontSize int
}

func NewASSWriter() *ASSWriter {
	return &ASSWriter{
		FontName: "Noto Naskh Arabic",
		FontSize: 18,
	}
}

// Render returns the document for cues, one Dialogue line per cue in the
// order given.
func (w *ASSWriter) Render(cues []Cue) []byte {
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default, %s, %d, &H00FFFFFF, &H000000FF, &H00000000, &H00000000, 0, 0, 0, 0, 100, 100, 0, 0, 1, 1, 0, 2, 10, 10, 10, 1\n\n",
		w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range cues {
		sb.WriteString(DialogueLine(cue))
	}

	return []byte(sb.String())
}

// writes the rendered document to path
func (w *ASSWriter) Write(cues []Cue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, w.Render(cues), 0644); err != nil {
		return fmt.Errorf("failed to write ASS file: %w", err)
	}
	return nil
}

// DialogueLine formats one event line including the trailing newline.
func DialogueLine(cue Cue) string {
	return fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
		cue.Start,
		cue.End,
		escapeASSText(cue.Text))
}

// a raw newline would end the event line early
func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\\N")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
