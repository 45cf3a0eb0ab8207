// Package charset is the character-set and collation registry consulted when
// the parser meets introduced literals such as _utf8mb4'abc' or COLLATE
// clauses.
//
// Each charset knows its default collation and, where one exists, the
// golang.org/x/text encoding used to check that a literal's text can be
// represented in it.
package charset

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Charset describes one server character set.
type Charset struct {
	Name             string
	DefaultCollation string
	MaxLen           int
	Collations       []string

	enc encoding.Encoding // nil for utf8 family, ascii and binary
}

// Well-known names.
const (
	Binary  = "binary"
	UTF8MB4 = "utf8mb4"
)

// UnsupportedCharsetError is returned for unknown charset names.
type UnsupportedCharsetError struct {
	Name string
}

func (e *UnsupportedCharsetError) Error() string {
	return fmt.Sprintf("Unsupported character introducer: '%s'", e.Name)
}

// UnknownCollationError is returned for unknown collation names.
type UnknownCollationError struct {
	Name string
}

func (e *UnknownCollationError) Error() string {
	return fmt.Sprintf("Unknown collation: '%s'", e.Name)
}

// CollationMismatchError is returned when a collation does not belong to a charset.
type CollationMismatchError struct {
	Collation string
	Charset   string
}

func (e *CollationMismatchError) Error() string {
	return fmt.Sprintf("COLLATION '%s' is not valid for CHARACTER SET '%s'", e.Collation, e.Charset)
}

var charsets = map[string]*Charset{}

// collations maps a collation name to its charset name.
var collations = map[string]string{}

func add(name, defaultCollation string, maxLen int, enc encoding.Encoding, extra ...string) {
	cs := &Charset{Name: name, DefaultCollation: defaultCollation, MaxLen: maxLen, enc: enc}
	seen := map[string]bool{}
	for _, c := range append([]string{defaultCollation, name + "_bin"}, extra...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cs.Collations = append(cs.Collations, c)
		collations[c] = name
	}
	charsets[name] = cs
}

func init() {
	add("armscii8", "armscii8_general_ci", 1, nil)
	add("ascii", "ascii_general_ci", 1, nil)
	add("big5", "big5_chinese_ci", 2, traditionalchinese.Big5)
	add(Binary, "binary", 1, nil)
	add("cp1250", "cp1250_general_ci", 1, charmap.Windows1250, "cp1250_czech_cs", "cp1250_polish_ci")
	add("cp1251", "cp1251_general_ci", 1, charmap.Windows1251, "cp1251_bulgarian_ci", "cp1251_ukrainian_ci")
	add("cp1256", "cp1256_general_ci", 1, charmap.Windows1256)
	add("cp1257", "cp1257_general_ci", 1, charmap.Windows1257, "cp1257_lithuanian_ci")
	add("cp850", "cp850_general_ci", 1, charmap.CodePage850)
	add("cp852", "cp852_general_ci", 1, charmap.CodePage852)
	add("cp866", "cp866_general_ci", 1, charmap.CodePage866)
	add("cp932", "cp932_japanese_ci", 2, japanese.ShiftJIS)
	add("eucjpms", "eucjpms_japanese_ci", 3, japanese.EUCJP)
	add("euckr", "euckr_korean_ci", 2, korean.EUCKR)
	add("gb18030", "gb18030_chinese_ci", 4, simplifiedchinese.GB18030, "gb18030_unicode_520_ci")
	add("gb2312", "gb2312_chinese_ci", 2, simplifiedchinese.GBK)
	add("gbk", "gbk_chinese_ci", 2, simplifiedchinese.GBK)
	add("greek", "greek_general_ci", 1, charmap.ISO8859_7)
	add("hebrew", "hebrew_general_ci", 1, charmap.ISO8859_8)
	add("koi8r", "koi8r_general_ci", 1, charmap.KOI8R)
	add("koi8u", "koi8u_general_ci", 1, charmap.KOI8U)
	add("latin1", "latin1_swedish_ci", 1, charmap.Windows1252,
		"latin1_general_ci", "latin1_general_cs", "latin1_german1_ci", "latin1_german2_ci", "latin1_spanish_ci")
	add("latin2", "latin2_general_ci", 1, charmap.ISO8859_2)
	add("latin5", "latin5_turkish_ci", 1, charmap.ISO8859_9)
	add("latin7", "latin7_general_ci", 1, charmap.ISO8859_13)
	add("macroman", "macroman_general_ci", 1, charmap.Macintosh)
	add("sjis", "sjis_japanese_ci", 2, japanese.ShiftJIS)
	add("tis620", "tis620_thai_ci", 1, charmap.Windows874)
	add("ucs2", "ucs2_general_ci", 2, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "ucs2_unicode_ci")
	add("ujis", "ujis_japanese_ci", 3, japanese.EUCJP)
	add("utf16", "utf16_general_ci", 4, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf16_unicode_ci")
	add("utf16le", "utf16le_general_ci", 4, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	add("utf32", "utf32_general_ci", 4, utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "utf32_unicode_ci")
	add("utf8mb3", "utf8mb3_general_ci", 3, nil,
		"utf8mb3_unicode_ci", "utf8_general_ci", "utf8_bin", "utf8_unicode_ci")
	add(UTF8MB4, "utf8mb4_0900_ai_ci", 4, nil,
		"utf8mb4_general_ci", "utf8mb4_unicode_ci", "utf8mb4_unicode_520_ci",
		"utf8mb4_0900_as_cs", "utf8mb4_0900_bin", "utf8mb4_zh_0900_as_cs")
	charsets["utf8"] = charsets["utf8mb3"]
}

// Lookup returns the charset with the given (case-insensitive) name.
func Lookup(name string) (*Charset, error) {
	if cs, ok := charsets[strings.ToLower(name)]; ok {
		return cs, nil
	}
	return nil, &UnsupportedCharsetError{Name: name}
}

// DefaultCollationFor returns the default collation of a charset.
func DefaultCollationFor(name string) (string, error) {
	cs, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return cs.DefaultCollation, nil
}

// CharsetOfCollation returns the charset a collation belongs to.
func CharsetOfCollation(collation string) (string, error) {
	if cs, ok := collations[strings.ToLower(collation)]; ok {
		return cs, nil
	}
	return "", &UnknownCollationError{Name: collation}
}

// ValidatePair checks that collation belongs to charset. An empty collation
// is always valid.
func ValidatePair(charsetName, collation string) error {
	cs, err := Lookup(charsetName)
	if err != nil {
		return err
	}
	if collation == "" {
		return nil
	}
	owner, err := CharsetOfCollation(collation)
	if err != nil {
		return err
	}
	if owner != cs.Name {
		return &CollationMismatchError{Collation: collation, Charset: cs.Name}
	}
	return nil
}

// Names returns all charset names, sorted.
func Names() []string {
	out := make([]string, 0, len(charsets))
	for n := range charsets {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CanEncode reports whether the UTF-8 text s is representable in the charset.
func (c *Charset) CanEncode(s string) bool {
	switch c.Name {
	case Binary, UTF8MB4:
		return true
	case "ascii":
		for i := 0; i < len(s); i++ {
			if s[i] >= utf8.RuneSelf {
				return false
			}
		}
		return true
	case "utf8mb3":
		for _, r := range s {
			if utf8.RuneLen(r) > 3 {
				return false
			}
		}
		return true
	}
	if c.enc == nil {
		return true
	}
	_, err := c.enc.NewEncoder().String(s)
	return err == nil
}
