package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/tilawa/internal/audio"
	"github.com/mgpai22/tilawa/internal/config"
	"github.com/mgpai22/tilawa/internal/quran"
	"github.com/mgpai22/tilawa/internal/timeline"
	"github.com/spf13/cobra"
)

// verse selection shared by generate and timeline
type verseSelection struct {
	Range     timeline.Range
	AudioType audio.Type
	TextType  quran.TextType
}

func addVerseFlags(cmd *cobra.Command) {
	cmd.Flags().Int("surah", 0, "Surah number (required)")
	cmd.Flags().Int("start-aya", 0, "First verse of the range (required)")
	cmd.Flags().Int("end-aya", 0, "Last verse of the range, inclusive (required)")
	cmd.Flags().
		String("audio-type", string(audio.TypeArabic), "Recitation audio (arabic, english, urdu)")
	cmd.Flags().
		String("text-type", string(quran.TextNone), "Subtitle text (arabic, english, urdu, none)")

	_ = cmd.MarkFlagRequired("surah")
	_ = cmd.MarkFlagRequired("start-aya")
	_ = cmd.MarkFlagRequired("end-aya")
}

func readVerseFlags(cmd *cobra.Command) (verseSelection, error) {
	surah, _ := cmd.Flags().GetInt("surah")
	startAya, _ := cmd.Flags().GetInt("start-aya")
	endAya, _ := cmd.Flags().GetInt("end-aya")
	audioStr, _ := cmd.Flags().GetString("audio-type")
	textStr, _ := cmd.Flags().GetString("text-type")

	sel := verseSelection{
		Range: timeline.Range{Surah: surah, Start: startAya, End: endAya},
	}
	if err := sel.Range.Validate(); err != nil {
		return sel, err
	}

	var err error
	if sel.AudioType, err = audio.ParseType(audioStr); err != nil {
		return sel, err
	}
	if sel.TextType, err = quran.ParseTextType(textStr); err != nil {
		return sel, err
	}
	return sel, nil
}

func newBuilder(
	cfg *config.Config,
	sel verseSelection,
	lookup quran.TextLookup,
	prober audio.Prober,
) *timeline.Builder {
	paths := func(surah, verse int) string {
		return audio.SegmentPath(cfg.Paths.AudioDir, sel.AudioType, surah, verse, cfg.Media.AudioExtension)
	}
	builder := timeline.NewBuilder(paths, lookup, prober)
	builder.CumulativeEnd = cfg.Timeline.CumulativeEnd
	return builder
}

// surahTitle prefers the name from the selected corpus, then the Arabic
// corpus, then a numbered fallback.
func surahTitle(cfg *config.Config, lookup quran.TextLookup, surah int) string {
	if corpus, ok := lookup.(*quran.Corpus); ok {
		if name := corpus.SurahName(surah); name != "" {
			return name
		}
	}
	corpus, err := quran.Load(filepath.Join(cfg.Paths.TextsDir, quran.TextArabic.FileName()))
	if err == nil {
		if name := corpus.SurahName(surah); name != "" {
			return name
		}
	} else {
		logger.Debugw("Surah names unavailable", "error", err)
	}
	return fmt.Sprintf("Surah %d", surah)
}

func videoTitle(cfg *config.Config, name string, r timeline.Range) string {
	title := fmt.Sprintf("%s %d-%d", name, r.Start, r.End)
	return quran.WrapText(title, cfg.Video.WrapWidth)
}
