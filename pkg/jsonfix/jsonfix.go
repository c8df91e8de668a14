// Package jsonfix recovers near-valid JSON from unreliable generators.
//
// Chat models asked for a JSON document routinely hand back text with an extra
// layer of escaping, full-width CJK punctuation, trailing commas, bare keys or
// single quotes. jsonfix runs a fixed sequence of best-effort repair passes
// over the raw text and then decodes it with encoding/json. The passes are
// global textual substitutions, not a JSON-aware lexer, so they can misfire on
// string content that legitimately contains the patterns they target; callers
// that need literal-aware repair can opt into the strict variant.
package jsonfix

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
)

// RequiredFields are the top-level keys every parsed document must contain.
var RequiredFields = []string{"generation_prompt", "evaluation_rubic", "manual"}

// RequiredRubricFields are the keys the evaluation_rubic object must contain.
var RequiredRubricFields = []string{"pc_rubic", "cmp_rubic", "slr_rubic", "clr_rubic", "ri_rubic"}

var (
	backslashDigit = regexp.MustCompile(`\\(\d)`)

	// RE2's \w and \s are ASCII-only; the explicit classes keep these passes
	// working on CJK keys and full-width spaces.
	trailingComma = regexp.MustCompile(`,[\s\p{Zs}]*}`)
	trailingArray = regexp.MustCompile(`,[\s\p{Zs}]*]`)
	bareKey       = regexp.MustCompile(`([{,][\s\p{Zs}]*)([\p{L}\p{N}_]+)([\s\p{Zs}]*:)`)

	fullWidth = strings.NewReplacer(
		"：", ":",
		"，", ",",
		"”", `"`,
		"“", `"`,
		"；", ";",
		"。", ".",
		"（", "(",
		"）", ")",
	)
)

type options struct {
	strict bool
}

// Option configures RepairAndParse.
type Option func(*options)

// WithStrictRepair replaces the heuristic substitution passes with a
// string-literal-aware repair (kaptinlin/jsonrepair). It will not rewrite
// full-width punctuation inside legitimate string content, at the cost of
// exact parity with the default pipeline.
func WithStrictRepair() Option {
	return func(o *options) { o.strict = true }
}

// ExtractObject slices text down to its outermost brace pair, discarding any
// commentary the model wrapped around the document. Returns false when no
// object is present.
func ExtractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Normalize trims outer whitespace and strips one layer of enclosing double
// quotes, for producers that wrapped the whole document as a quoted string.
// Returns ErrEmptyInput when nothing remains.
func Normalize(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`) {
		if len(cleaned) >= 2 {
			cleaned = cleaned[1 : len(cleaned)-1]
		} else {
			cleaned = ""
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", ErrEmptyInput
	}
	return cleaned, nil
}

// RepairEscapes collapses doubly-escaped newline and tab sequences, rewrites
// illegal backslash-digit escapes as a newline followed by the digit (a common
// authoring slip in numbered lists), and converts full-width punctuation to
// ASCII. Always succeeds.
func RepairEscapes(text string) string {
	fixed := strings.ReplaceAll(text, `\\n`, `\n`)
	fixed = strings.ReplaceAll(fixed, `\\t`, `\t`)
	fixed = backslashDigit.ReplaceAllString(fixed, `\n$1`)
	return fullWidth.Replace(fixed)
}

// RepairStructure removes trailing commas before closing braces and brackets,
// quotes bare object keys, and turns unescaped single quotes into double
// quotes. Always succeeds.
func RepairStructure(text string) string {
	fixed := trailingComma.ReplaceAllString(text, "}")
	fixed = trailingArray.ReplaceAllString(fixed, "]")
	fixed = bareKey.ReplaceAllString(fixed, `$1"$2"$3`)
	return replaceUnescapedSingleQuotes(fixed)
}

// replaceUnescapedSingleQuotes swaps ' for " unless the quote is preceded by a
// backslash. A byte scan stands in for the lookbehind RE2 does not support;
// both ' and \ are single bytes in UTF-8 so the scan is encoding-safe.
func replaceUnescapedSingleQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\'' && (i == 0 || text[i-1] != '\\') {
			b.WriteByte('"')
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// Parse decodes text with encoding/json. On failure it returns a *DecodeError
// positioned at the first byte the decoder rejected, with a preview of the
// text that failed.
func Parse(text string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, newDecodeError(text, err)
	}
	return doc, nil
}

func newDecodeError(text string, err error) *DecodeError {
	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}

	line, column := 1, 1
	if offset > 0 && int(offset) <= len(text) {
		before := text[:offset]
		line = strings.Count(before, "\n") + 1
		column = utf8.RuneCountInString(before[strings.LastIndex(before, "\n")+1:]) + 1
	}

	preview := text
	if runes := []rune(preview); len(runes) > 500 {
		preview = string(runes[:500]) + "..."
	}

	return &DecodeError{
		Line:    line,
		Column:  column,
		Offset:  offset,
		Preview: preview,
		Err:     err,
	}
}

// ValidateSchema confirms the decoded document carries every required
// top-level key and, when those are all present, every required rubric
// sub-key. Missing keys are collected per level, not reported one at a time.
func ValidateSchema(doc map[string]any) error {
	var missing []string
	for _, field := range RequiredFields {
		if _, ok := doc[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	rubric, _ := doc["evaluation_rubic"].(map[string]any)
	var missingRubric []string
	for _, field := range RequiredRubricFields {
		if _, ok := rubric[field]; !ok {
			missingRubric = append(missingRubric, field)
		}
	}
	if len(missingRubric) > 0 {
		return &MissingRubricFieldsError{Fields: missingRubric}
	}
	return nil
}

// RepairAndParse runs the full pipeline: normalize, repair escapes, repair
// structure, decode, validate. Each stage derives a new string from its
// input; nothing is mutated in place. The repair passes are deterministic and
// the pipeline performs no retries: any failure past them is surfaced
// immediately with enough detail for the caller to decide whether to
// regenerate the input.
func RepairAndParse(raw string, opts ...Option) (map[string]any, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cleaned, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	var repaired string
	if o.strict {
		repaired, err = jsonrepair.JSONRepair(cleaned)
		if err != nil {
			return nil, newDecodeError(cleaned, err)
		}
	} else {
		repaired = RepairStructure(RepairEscapes(cleaned))
	}

	doc, err := Parse(repaired)
	if err != nil {
		return nil, err
	}
	if err := ValidateSchema(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
