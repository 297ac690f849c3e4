package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// symbolReplacer spells out characters that carry meaning in titles and
// transliterates letters that have no Unicode decomposition.
var symbolReplacer = strings.NewReplacer(
	"&", "and",
	"%", "percent",
	"$", "dollar",
	"<", "less",
	">", "greater",
	"|", "or",
	"ß", "ss",
	"æ", "ae",
	"Æ", "AE",
	"œ", "oe",
	"Œ", "OE",
	"ø", "o",
	"Ø", "O",
	"đ", "d",
	"Đ", "D",
	"ð", "d",
	"Ð", "D",
	"ł", "l",
	"Ł", "L",
	"þ", "th",
	"Þ", "TH",
)

// Make returns the slug for text. The result is empty when text contains no
// ASCII letters or digits after folding.
func Make(text string) string {
	folded := fold(symbolReplacer.Replace(text))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case isASCIIAlnum(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// FromPath slugs a title or filename that may contain path separators, which
// are treated as word breaks.
func FromPath(text string) string {
	return Make(strings.ReplaceAll(text, "/", " "))
}

func fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
