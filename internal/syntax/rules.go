// Package syntax implements the state-driven segmenter: given a language
// profile selected by file extension, it classifies a cursor into `code`
// or one of `{line-comment, block-comment, string, raw-string}`.
package syntax

import (
	"strings"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
)

// Kind is the classification a byte position may carry.
type Kind int

const (
	Code Kind = iota
	LineComment
	BlockComment
	String
	RawString
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	case String:
		return "string"
	case RawString:
		return "raw-string"
	default:
		return "unknown"
	}
}

// Rule describes one recognized start/end pair. An empty End on a
// LineComment rule means "ends at the next newline or EOF" rather than a
// literal end pattern.
type Rule struct {
	Kind      Kind
	Start     string
	End       string
	HasEscape bool
	Escape    byte
}

// Profile is the fixed, ordered rule list for one file extension.
type Profile struct {
	Extension string
	Rules     []Rule
}

func lineComment(start string) Rule       { return Rule{Kind: LineComment, Start: start} }
func blockComment(start, end string) Rule { return Rule{Kind: BlockComment, Start: start, End: end} }
func quoted(q string) Rule                { return Rule{Kind: String, Start: q, End: q, HasEscape: true, Escape: '\\'} }
func quotedNoEscape(q string) Rule        { return Rule{Kind: String, Start: q, End: q} }
func raw(start, end string) Rule          { return Rule{Kind: RawString, Start: start, End: end} }

// profiles is the extension -> Profile table from §6.3, including the
// extensions recovered from the original source's PrepareState_s that the
// distilled table dropped for brevity.
var profiles = buildProfiles()

func buildProfiles() map[string]Profile {
	m := map[string]Profile{}

	reg := func(rules []Rule, exts ...string) {
		for _, ext := range exts {
			m[ext] = Profile{Extension: ext, Rules: rules}
		}
	}

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`), raw(`R"(`, `)"`)},
		".c", ".cc", ".cpp", ".cxx", ".h", ".hpp", ".hxx", ".ipp")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`), raw(`"""`, `"""`)},
		".cs", ".fs", ".kt", ".swift")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`)},
		".java")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`), quoted(`'`), raw("`", "`")},
		".js", ".ts")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), blockComment("{/*", "*/}"), quoted(`"`), quoted(`'`), raw("`", "`")},
		".jsx", ".tsx")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`), raw("`", "`")},
		".go")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`), raw(`r"`, `"`), raw(`r#"`, `"#`), raw(`r##"`, `"##`)},
		".rs")

	reg([]Rule{blockComment("<!--", "-->"), quotedNoEscape(`"`)},
		".html", ".htm", ".xml")

	reg([]Rule{blockComment("/*", "*/"), quotedNoEscape(`"`)},
		".css")

	reg([]Rule{lineComment("#"), Rule{Kind: String, Start: `"""`, End: `"""`}, quotedNoEscape(`"`)},
		".py")

	reg([]Rule{lineComment("--"), blockComment("/*", "*/"), quotedNoEscape(`"`)},
		".sql")

	reg([]Rule{lineComment("//"), lineComment("#"), blockComment("/*", "*/"), quoted(`"`), quoted(`'`)},
		".php")

	reg([]Rule{lineComment("--"), blockComment("--[[", "]]"), quoted(`"`), quoted(`'`), raw("[[", "]]")},
		".lua")

	reg([]Rule{lineComment("#"), blockComment("=begin", "=end"), quoted(`"`), quoted(`'`)},
		".rb")

	reg([]Rule{quotedNoEscape(`"`)},
		".json")

	reg([]Rule{lineComment("#"), quoted(`"`), quotedNoEscape(`'`)},
		".sh", ".bash")

	reg([]Rule{lineComment("#"), quotedNoEscape(`"`), quotedNoEscape(`'`)},
		".yaml", ".yml")

	reg([]Rule{lineComment("#"), quotedNoEscape(`"`), quotedNoEscape(`'`), raw(`'''`, `'''`), raw(`"""`, `"""`)},
		".toml")

	reg([]Rule{lineComment("#"), lineComment(";"), quotedNoEscape(`"`)},
		".ini")

	reg([]Rule{lineComment("#"), blockComment("=pod", "=cut"), quoted(`"`), quoted(`'`)},
		".pl", ".pm")

	reg([]Rule{lineComment("//"), blockComment("/*", "*/"), quoted(`"`), quoted(`'`), raw("`", "`")},
		".dart")

	reg([]Rule{lineComment(";"), quoted(`"`)},
		".clj")

	reg([]Rule{lineComment(`"`), quotedNoEscape(`"`), quotedNoEscape(`'`)},
		".vim")

	reg([]Rule{lineComment("REM"), lineComment("::"), quotedNoEscape(`"`)},
		".bat", ".cmd")

	reg([]Rule{lineComment("#"), blockComment("<#", "#>"), quotedNoEscape(`"`), quotedNoEscape(`'`)},
		".ps1")

	reg([]Rule{lineComment("#"), quotedNoEscape(`"`)},
		".mak", ".makefile", ".ninja")

	reg(nil, ".txt", ".md")

	return m
}

// ProfileForExtension returns the fixed rule list for ext (with or
// without a leading dot). Returns an UnsupportedError for unknown
// extensions, per §7.
func ProfileForExtension(ext string) (Profile, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)
	p, ok := profiles[ext]
	if !ok {
		return Profile{}, fcerrors.NewUnsupportedError(ext)
	}
	return p, nil
}
