// Package metadata derives per-note data from markdown content: tags from
// YAML front matter and inline #tag tokens, wiki links, and a plain-text
// snippet for list rows. The cache keeps one Meta per note and reindexes
// in response to vault events.
package metadata

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// snippetLength caps the plain-text snippet shown in list rows.
const snippetLength = 160

// Meta holds the derived data for a single note.
type Meta struct {
	Tags    []string // Normalized tags, sorted, deduplicated
	Aliases []string // Front matter aliases, verbatim
	Links   []string // Wiki link targets, in order of first appearance
	Snippet string   // Plain-text preview of the body
}

// frontMatter mirrors the fields we read from YAML front matter. Tags and
// aliases accept both list and comma-separated string forms, so both are
// decoded loosely and normalized afterwards.
type frontMatter struct {
	Tags    interface{} `yaml:"tags"`
	Aliases interface{} `yaml:"aliases"`
}

var wikiLinkRe = regexp.MustCompile(`\[\[([^\]|#]+)(?:#[^\]|]*)?(?:\|[^\]]*)?\]\]`)

// Parse extracts metadata from raw markdown content. Parsing never fails:
// malformed front matter degrades to treating the whole file as body, and
// an empty file yields empty metadata.
func Parse(content []byte) Meta {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &fm)
	if err != nil {
		body = content
		fm = frontMatter{}
	}

	tagSet := make(map[string]struct{})
	for _, t := range looseStrings(fm.Tags) {
		if tag, ok := normalizeTag(t); ok {
			tagSet[tag] = struct{}{}
		}
	}

	text := plainText(body)
	for _, t := range inlineTags(text) {
		tagSet[t] = struct{}{}
	}

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	return Meta{
		Tags:    tags,
		Aliases: looseStrings(fm.Aliases),
		Links:   wikiLinks(body),
		Snippet: snippet(text),
	}
}

// HasTag reports whether the note carries the given tag. Comparison is
// case-insensitive and tolerates a leading '#'.
func (m Meta) HasTag(tag string) bool {
	want, ok := normalizeTag(tag)
	if !ok {
		return false
	}
	for _, t := range m.Tags {
		if t == want {
			return true
		}
	}
	return false
}

// looseStrings flattens a YAML value that may be a string, a
// comma-separated string, or a list of strings.
func looseStrings(v interface{}) []string {
	var out []string
	switch val := v.(type) {
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// normalizeTag lowercases a tag, strips a leading '#', and validates it.
// Tags may contain letters, digits, '_', '-', and '/' for nesting, and
// must contain at least one non-digit character.
func normalizeTag(raw string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	tag = strings.TrimPrefix(tag, "#")
	if tag == "" {
		return "", false
	}

	hasAlpha := false
	for _, r := range tag {
		switch {
		case unicode.IsLetter(r) || r == '_' || r == '-' || r == '/':
			hasAlpha = true
		case unicode.IsDigit(r):
		default:
			return "", false
		}
	}
	if !hasAlpha {
		return "", false
	}
	return tag, true
}

// inlineTags scans plain text for #tag tokens. A token counts only when
// the '#' starts the text or follows whitespace, so URL fragments and
// headings (whose markers the parser already consumed) don't match.
func inlineTags(text string) []string {
	var tags []string
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		if i > 0 && !unicode.IsSpace(runes[i-1]) {
			continue
		}
		j := i + 1
		for j < len(runes) && isTagRune(runes[j]) {
			j++
		}
		if tag, ok := normalizeTag(string(runes[i+1 : j])); ok {
			tags = append(tags, tag)
		}
		i = j - 1
	}
	return tags
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '/'
}

// plainText renders markdown down to its visible text by walking the
// goldmark AST, skipping code blocks and spans where tag tokens are
// literal content rather than tags.
func plainText(body []byte) string {
	doc := goldmark.New().Parser().Parse(gtext.NewReader(body))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindCodeSpan, ast.KindHTMLBlock, ast.KindRawHTML:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			t := n.(*ast.Text)
			sb.Write(t.Segment.Value(body))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(sb.String()), " ")
}

// wikiLinks extracts [[target]] link targets, keeping first-appearance
// order and dropping duplicates. Section references and display aliases
// are stripped.
func wikiLinks(body []byte) []string {
	seen := make(map[string]struct{})
	var links []string
	for _, m := range wikiLinkRe.FindAllSubmatch(body, -1) {
		target := strings.TrimSpace(string(m[1]))
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		links = append(links, target)
	}
	return links
}

func snippet(text string) string {
	if len(text) <= snippetLength {
		return text
	}
	cut := text[:snippetLength]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	} else {
		// No word boundary in range: back off until the cut point is a
		// rune start so a multibyte character is never split.
		for len(cut) > 0 && !utf8.RuneStart(text[len(cut)]) {
			cut = cut[:len(cut)-1]
		}
	}
	return cut + "…"
}
