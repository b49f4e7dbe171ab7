// Package quran reads verse text and surah names from a Tanzil style XML
// corpus:
//
//	<quran>
//	  <sura index="1" name="الفاتحة">
//	    <aya index="1" text="..."/>
//	  </sura>
//	</quran>
package quran

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// resolves verse text by (surah, verse)
type TextLookup interface {
	// Text returns "" when the verse is absent.
	Text(surah, verse int) string
}

type verseKey struct {
	surah int
	verse int
}

// in-memory copy of one corpus file
type Corpus struct {
	verses map[verseKey]string
	names  map[int]string
}

type xmlQuran struct {
	Suras []xmlSura `xml:"sura"`
}

type xmlSura struct {
	Index int      `xml:"index,attr"`
	Name  string   `xml:"name,attr"`
	Ayas  []xmlAya `xml:"aya"`
}

type xmlAya struct {
	Index int    `xml:"index,attr"`
	Text  string `xml:"text,attr"`
}

// Load parses the corpus file at path.
func Load(path string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	corpus, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", filepath.Base(path), err)
	}
	return corpus, nil
}

// Parse decodes a corpus document. Verse text is normalized to NFC so that
// equivalent Arabic sequences render identically in subtitles.
func Parse(r io.Reader) (*Corpus, error) {
	var doc xmlQuran
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}

	corpus := &Corpus{
		verses: make(map[verseKey]string),
		names:  make(map[int]string, len(doc.Suras)),
	}
	for _, sura := range doc.Suras {
		if sura.Name != "" {
			corpus.names[sura.Index] = norm.NFC.String(strings.TrimSpace(sura.Name))
		}
		for _, aya := range sura.Ayas {
			key := verseKey{surah: sura.Index, verse: aya.Index}
			corpus.verses[key] = norm.NFC.String(strings.TrimSpace(aya.Text))
		}
	}
	return corpus, nil
}

func (c *Corpus) Text(surah, verse int) string {
	return c.verses[verseKey{surah: surah, verse: verse}]
}

// SurahName returns the sura name attribute or "" if the corpus has none.
func (c *Corpus) SurahName(surah int) string {
	return c.names[surah]
}

// Len reports the number of verses held.
func (c *Corpus) Len() int {
	return len(c.verses)
}

// TextLookup used when no text track is requested
type NoText struct{}

func (NoText) Text(int, int) string { return "" }

// language of the subtitle text
type TextType string

const (
	TextArabic  TextType = "arabic"
	TextEnglish TextType = "english"
	TextUrdu    TextType = "urdu"
	TextNone    TextType = "none"
)

func ParseTextType(s string) (TextType, error) {
	switch TextType(strings.ToLower(strings.TrimSpace(s))) {
	case TextArabic:
		return TextArabic, nil
	case TextEnglish:
		return TextEnglish, nil
	case TextUrdu:
		return TextUrdu, nil
	case TextNone, "":
		return TextNone, nil
	default:
		return "", fmt.Errorf("unsupported text type %q: use arabic, english, urdu, or none", s)
	}
}

// FileName is the corpus file for t, "" for TextNone.
func (t TextType) FileName() string {
	if t == TextNone {
		return ""
	}
	return string(t) + ".xml"
}

// Open returns the lookup for t, loading <textsDir>/<type>.xml when needed.
func Open(textsDir string, t TextType) (TextLookup, error) {
	name := t.FileName()
	if name == "" {
		return NoText{}, nil
	}
	return Load(filepath.Join(textsDir, name))
}
