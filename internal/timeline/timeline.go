// Package timeline turns a verse range into subtitle cues and a concat
// playlist, timing each cue from the measured duration of its audio clip.
package timeline

import (
	"errors"
	"fmt"

	"github.com/mgpai22/tilawa/internal/audio"
	"github.com/mgpai22/tilawa/internal/quran"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/timecode"
)

var ErrInvalidRange = errors.New("invalid verse range")

// inclusive, 1-based verse span within one surah
type Range struct {
	Surah int
	Start int
	End   int
}

// Validate rejects non-positive indices. Start > End is valid and empty.
func (r Range) Validate() error {
	if r.Surah < 1 {
		return fmt.Errorf("%w: surah %d must be positive", ErrInvalidRange, r.Surah)
	}
	if r.Start < 1 || r.End < 1 {
		return fmt.Errorf("%w: verses %d-%d must be positive", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Len is the number of verses in the range.
func (r Range) Len() int {
	if r.Start > r.End {
		return 0
	}
	return r.End - r.Start + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d", r.Surah, r.Start, r.End)
}

// maps a verse key to its audio clip
type PathFunc func(surah, verse int) string

// one probed audio clip
type Segment struct {
	Verse    int
	Path     string
	Duration timecode.TimePoint
}

type Timeline struct {
	Cues     []subtitle.Cue
	Segments []Segment
	Total    timecode.TimePoint
}

// walks a verse range one clip at a time
type Builder struct {
	Paths  PathFunc
	Lookup quran.TextLookup
	Probe  audio.Prober

	// CumulativeEnd ends each cue at the running total instead of at the
	// clip's own duration.
	CumulativeEnd bool
}

func NewBuilder(paths PathFunc, lookup quran.TextLookup, probe audio.Prober) *Builder {
	return &Builder{
		Paths:  paths,
		Lookup: lookup,
		Probe:  probe,
	}
}

// Collect runs the range in ascending order and returns the timeline with
// its playlist. The first probe or parse failure aborts the whole range.
func (b *Builder) Collect(r Range) (*Timeline, Playlist, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	if b.Paths == nil || b.Probe == nil {
		return nil, nil, errors.New("timeline builder requires a path function and a prober")
	}
	lookup := b.Lookup
	if lookup == nil {
		lookup = quran.NoText{}
	}

	n := r.Len()
	tl := &Timeline{
		Cues:     make([]subtitle.Cue, 0, n),
		Segments: make([]Segment, 0, n),
	}
	playlist := make(Playlist, 0, n)
	cumulative := timecode.Zero

	for verse := r.Start; verse <= r.End; verse++ {
		path := b.Paths(r.Surah, verse)
		playlist = append(playlist, path)

		raw, err := b.Probe.Probe(path)
		if err != nil {
			if !errors.Is(err, audio.ErrProbe) {
				err = &audio.ProbeError{Path: path, Err: err}
			}
			return nil, nil, fmt.Errorf("verse %d:%d: %w", r.Surah, verse, err)
		}

		duration, err := timecode.Parse(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("verse %d:%d: %w", r.Surah, verse, err)
		}

		end := duration
		if b.CumulativeEnd {
			end = timecode.Accumulate(cumulative, duration)
		}

		tl.Cues = append(tl.Cues, subtitle.Cue{
			Start: timecode.FormatCentisecond(cumulative),
			End:   timecode.FormatCentisecond(end),
			Text:  lookup.Text(r.Surah, verse),
		})
		tl.Segments = append(tl.Segments, Segment{
			Verse:    verse,
			Path:     path,
			Duration: duration,
		})

		cumulative = timecode.Accumulate(cumulative, duration)
	}

	tl.Total = cumulative
	return tl, playlist, nil
}

// Build is Collect followed by committing the playlist to playlistPath. On
// error nothing is written.
func (b *Builder) Build(r Range, playlistPath string) (*Timeline, error) {
	tl, playlist, err := b.Collect(r)
	if err != nil {
		return nil, err
	}
	if err := playlist.WriteFile(playlistPath); err != nil {
		return nil, err
	}
	return tl, nil
}
