package slug

import (
	"crypto/rand"
	"regexp"
	"strings"
)

var diacritics = map[rune]string{
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c", 'ß': "ss",
	'Á': "A", 'À': "A", 'Â': "A", 'Ä': "A", 'Ã': "A", 'Å': "A",
	'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E",
	'Í': "I", 'Ì': "I", 'Î': "I", 'Ï': "I",
	'Ó': "O", 'Ò': "O", 'Ô': "O", 'Ö': "O", 'Õ': "O",
	'Ú': "U", 'Ù': "U", 'Û': "U", 'Ü': "U",
	'Ñ': "N", 'Ç': "C",
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type config struct {
	separator   string
	maxLength   int
	lowercase   bool
	stripChars  string
	replace     map[string]string
	suffixLen   int
}

// Option configures Make.
type Option func(*config)

// MaxLength limits the slug to n runes (applied before any suffix).
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Separator sets the character used between words. Default "-".
func Separator(sep string) Option {
	return func(c *config) { c.separator = sep }
}

// Lowercase controls case conversion. Default true.
func Lowercase(enabled bool) Option {
	return func(c *config) { c.lowercase = enabled }
}

// StripChars removes the given characters before slugification.
func StripChars(chars string) Option {
	return func(c *config) { c.stripChars = chars }
}

// CustomReplace applies string replacements before slugification.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) { c.replace = replacements }
}

// WithSuffix appends a random alphanumeric suffix of n characters, separated
// by the configured separator, for collision resistance.
func WithSuffix(n int) Option {
	return func(c *config) { c.suffixLen = n }
}

// Make converts s into a URL-safe slug.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-", lowercase: true}
	for _, opt := range opts {
		opt(cfg)
	}

	for k, v := range cfg.replace {
		s = strings.ReplaceAll(s, k, v)
	}

	if cfg.stripChars != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(cfg.stripChars, r) {
				return -1
			}
			return r
		}, s)
	}

	s = normalize(s)

	if cfg.lowercase {
		s = strings.ToLower(s)
	}

	s = nonAlnum.ReplaceAllString(s, cfg.separator)
	s = strings.Trim(s, cfg.separator)

	if cfg.maxLength > 0 {
		runes := []rune(s)
		if len(runes) > cfg.maxLength {
			s = strings.Trim(string(runes[:cfg.maxLength]), cfg.separator)
		}
	}

	if cfg.suffixLen > 0 {
		s = s + cfg.separator + randomSuffix(cfg.suffixLen)
	}

	return s
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if repl, ok := diacritics[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(out)
}
