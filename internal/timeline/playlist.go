package timeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ordered segment paths for the ffmpeg concat demuxer
type Playlist []string

// Line renders one entry. The concat demuxer expects this exact quoting.
func Line(path string) string {
	return fmt.Sprintf("file '%s'\n", path)
}

func (p Playlist) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, path := range p {
		n, err := io.WriteString(w, Line(path))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFile writes the playlist next to path and renames it into place, so
// readers never observe a partial file.
func (p Playlist) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".playlist-*")
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	writer := bufio.NewWriter(tmp)
	if _, err := p.WriteTo(writer); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush playlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close playlist: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	committed = true
	return nil
}
