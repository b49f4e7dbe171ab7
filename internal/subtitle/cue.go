package subtitle

import (
	"github.com/mgpai22/tilawa/internal/timecode"
)

// single timed subtitle entry with preformatted timestamps
type Cue struct {
	Start string
	End   string
	Text  string
}

// start of every single-clip document
const clipStart = "0:00:00.00"

// SingleClip builds the cue for a subtitle that spans one whole clip. Its
// end uses the millisecond form.
func SingleClip(text string, duration timecode.TimePoint) Cue {
	return Cue{
		Start: clipStart,
		End:   timecode.FormatMillisecond(duration),
		Text:  text,
	}
}
