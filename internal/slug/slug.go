package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose into a base letter plus combining marks,
// and symbols that are spelled out instead of dropped.
var replacer = strings.NewReplacer(
	"đ", "d", "Đ", "d",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ı", "i",
	"&", "and",
	"$", "dollar",
	"%", "percent",
	"<", "less",
	">", "greater",
	"|", "or",
	"¢", "cent",
	"£", "pound",
	"¤", "currency",
	"¥", "yen",
	"€", "euro",
	"₫", "dong",
	"©", "c",
	"®", "r",
	"™", "tm",
	"∞", "infinity",
	"♥", "love",
)

// Make creates a lower-case URL-safe slug from name.
//
// Diacritics are removed ("Áo Dài" becomes "ao-dai") and a few symbols are
// spelled out ("50% Off" becomes "50percent-off"). Any other character
// outside [a-zA-Z0-9] is dropped, so "Men's Shoes" becomes "mens-shoes".
// Runs of whitespace and hyphens collapse into a single hyphen.
func Make(name string) string {
	s := replacer.Replace(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '-' || unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(b.String()), "-"))
}
