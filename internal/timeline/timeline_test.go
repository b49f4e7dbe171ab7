package timeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mgpai22/tilawa/internal/audio"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/timecode"
)

// returns canned durations keyed by path and records call order
type fakeProber struct {
	durations map[string]string
	failOn    string
	calls     []string
}

func (f *fakeProber) Probe(path string) (string, error) {
	f.calls = append(f.calls, path)
	if path == f.failOn {
		return "", errors.New("tool exited with status 1")
	}
	d, ok := f.durations[path]
	if !ok {
		return "", &audio.ProbeError{Path: path, Err: os.ErrNotExist}
	}
	return d, nil
}

type fakeLookup map[[2]int]string

func (f fakeLookup) Text(surah, verse int) string {
	return f[[2]int{surah, verse}]
}

func testPaths(surah, verse int) string {
	return fmt.Sprintf("/audio/%03d%03d.mp3", surah, verse)
}

func newTestBuilder(durations map[string]string) (*Builder, *fakeProber) {
	probe := &fakeProber{durations: durations}
	lookup := fakeLookup{
		{1, 1}: "In the name of Allah",
		{1, 2}: "All praise is due to Allah",
	}
	return NewBuilder(testPaths, lookup, probe), probe
}

func TestCollectOwnDurationEnds(t *testing.T) {
	b, _ := newTestBuilder(map[string]string{
		"/audio/001001.mp3": "00:00:03.456",
		"/audio/001002.mp3": "00:00:02.789",
	})

	tl, playlist, err := b.Collect(Range{Surah: 1, Start: 1, End: 2})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	want := []subtitle.Cue{
		{Start: "00:00:00.00", End: "00:00:03.45", Text: "In the name of Allah"},
		{Start: "00:00:03.45", End: "00:00:02.78", Text: "All praise is due to Allah"},
	}
	if !reflect.DeepEqual(tl.Cues, want) {
		t.Errorf("cues = %+v, want %+v", tl.Cues, want)
	}

	wantPlaylist := Playlist{"/audio/001001.mp3", "/audio/001002.mp3"}
	if !reflect.DeepEqual(playlist, wantPlaylist) {
		t.Errorf("playlist = %v, want %v", playlist, wantPlaylist)
	}

	if want := (timecode.TimePoint{Seconds: 6, Millis: 245}); tl.Total != want {
		t.Errorf("total = %+v, want %+v", tl.Total, want)
	}
}

func TestCollectCumulativeEnd(t *testing.T) {
	b, _ := newTestBuilder(map[string]string{
		"/audio/001001.mp3": "3.456000",
		"/audio/001002.mp3": "2.789000",
	})
	b.CumulativeEnd = true

	tl, _, err := b.Collect(Range{Surah: 1, Start: 1, End: 2})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if got := tl.Cues[1].End; got != "00:00:06.24" {
		t.Errorf("second cue end = %q, want %q", got, "00:00:06.24")
	}
	for i, cue := range tl.Cues {
		start, _ := timecode.Parse(cue.Start)
		end, _ := timecode.Parse(cue.End)
		if start.Compare(end) > 0 {
			t.Errorf("cue %d starts after it ends: %+v", i, cue)
		}
	}
}

func TestCollectCountAndOrder(t *testing.T) {
	durations := make(map[string]string)
	for v := 3; v <= 9; v++ {
		durations[testPaths(2, v)] = "1.5"
	}
	b, probe := newTestBuilder(durations)

	r := Range{Surah: 2, Start: 3, End: 9}
	tl, playlist, err := b.Collect(r)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(tl.Cues) != r.Len() || len(playlist) != r.Len() || len(tl.Segments) != r.Len() {
		t.Fatalf("got %d cues, %d playlist entries, %d segments, want %d each",
			len(tl.Cues), len(playlist), len(tl.Segments), r.Len())
	}

	for i, seg := range tl.Segments {
		if seg.Verse != r.Start+i {
			t.Errorf("segment %d verse = %d, want %d", i, seg.Verse, r.Start+i)
		}
		if playlist[i] != seg.Path || probe.calls[i] != seg.Path {
			t.Errorf("entry %d out of order: playlist %q, probe %q, segment %q",
				i, playlist[i], probe.calls[i], seg.Path)
		}
		// lookup misses become empty text
		if tl.Cues[i].Text != "" {
			t.Errorf("cue %d text = %q, want empty", i, tl.Cues[i].Text)
		}
	}

	if got, want := tl.Cues[6].Start, "00:00:09.00"; got != want {
		t.Errorf("last cue start = %q, want %q", got, want)
	}
}

func TestCollectEmptyRange(t *testing.T) {
	b, probe := newTestBuilder(nil)

	tl, playlist, err := b.Collect(Range{Surah: 1, Start: 5, End: 4})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(tl.Cues) != 0 || len(playlist) != 0 {
		t.Errorf("expected empty timeline, got %d cues and %d playlist entries", len(tl.Cues), len(playlist))
	}
	if len(probe.calls) != 0 {
		t.Errorf("expected no probes, got %v", probe.calls)
	}
}

func TestCollectRejectsInvalidRange(t *testing.T) {
	b, _ := newTestBuilder(nil)
	tests := []Range{
		{Surah: 0, Start: 1, End: 2},
		{Surah: 1, Start: 0, End: 2},
		{Surah: 1, Start: 1, End: -1},
	}
	for _, r := range tests {
		if _, _, err := b.Collect(r); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Collect(%v) error = %v, want ErrInvalidRange", r, err)
		}
	}
}

func TestCollectProbeFailureAborts(t *testing.T) {
	b, probe := newTestBuilder(map[string]string{
		"/audio/001001.mp3": "1.0",
		"/audio/001002.mp3": "1.0",
		"/audio/001003.mp3": "1.0",
	})
	probe.failOn = "/audio/001002.mp3"

	tl, playlist, err := b.Collect(Range{Surah: 1, Start: 1, End: 3})
	if err == nil {
		t.Fatal("expected probe failure")
	}
	if !errors.Is(err, audio.ErrProbe) {
		t.Errorf("error = %v, want ErrProbe", err)
	}
	if tl != nil || playlist != nil {
		t.Errorf("partial results exposed: %+v %v", tl, playlist)
	}
	if len(probe.calls) != 2 {
		t.Errorf("probed %v, want to stop at the failing verse", probe.calls)
	}
}

func TestCollectFormatErrorAborts(t *testing.T) {
	b, _ := newTestBuilder(map[string]string{
		"/audio/001001.mp3": "00:03.456",
	})

	_, _, err := b.Collect(Range{Surah: 1, Start: 1, End: 1})
	if !errors.Is(err, timecode.ErrFormat) {
		t.Errorf("error = %v, want ErrFormat", err)
	}
}

func TestBuildWritesPlaylist(t *testing.T) {
	b, _ := newTestBuilder(map[string]string{
		"/audio/001001.mp3": "00:00:03.456",
		"/audio/001002.mp3": "00:00:02.789",
	})
	dir := t.TempDir()
	path := filepath.Join(dir, "mp3files.txt")

	tl, err := b.Build(Range{Surah: 1, Start: 1, End: 2}, path)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(tl.Cues) != 2 {
		t.Errorf("expected 2 cues, got %d", len(tl.Cues))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read playlist: %v", err)
	}
	want := "file '/audio/001001.mp3'\nfile '/audio/001002.mp3'\n"
	if string(data) != want {
		t.Errorf("playlist = %q, want %q", data, want)
	}
	assertOnlyFile(t, dir, "mp3files.txt")
}

func TestBuildEmptyRangeWritesEmptyPlaylist(t *testing.T) {
	b, _ := newTestBuilder(nil)
	path := filepath.Join(t.TempDir(), "mp3files.txt")

	tl, err := b.Build(Range{Surah: 1, Start: 3, End: 1}, path)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(tl.Cues) != 0 {
		t.Errorf("expected no cues, got %d", len(tl.Cues))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected playlist file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty playlist, got %d bytes", info.Size())
	}
}

func TestBuildProbeFailureLeavesNoFile(t *testing.T) {
	b, probe := newTestBuilder(map[string]string{
		"/audio/001001.mp3": "1.0",
	})
	probe.failOn = "/audio/001002.mp3"
	dir := t.TempDir()

	_, err := b.Build(Range{Surah: 1, Start: 1, End: 2}, filepath.Join(dir, "mp3files.txt"))
	if err == nil {
		t.Fatal("expected error")
	}
	assertOnlyFile(t, dir, "")
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{}
	if name != "" {
		want = []string{name}
	}
	if len(names) != len(want) || (len(want) == 1 && names[0] != want[0]) {
		t.Errorf("directory holds %s, want %v", strings.Join(names, ", "), want)
	}
}

func TestPlaylistLine(t *testing.T) {
	if got, want := Line("resources/audios/arabic/001001.mp3"), "file 'resources/audios/arabic/001001.mp3'\n"; got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestRangeLen(t *testing.T) {
	tests := []struct {
		r    Range
		want int
	}{
		{Range{1, 1, 7}, 7},
		{Range{1, 4, 4}, 1},
		{Range{1, 5, 4}, 0},
	}
	for _, tt := range tests {
		if got := tt.r.Len(); got != tt.want {
			t.Errorf("%v.Len() = %d, want %d", tt.r, got, tt.want)
		}
	}
}
