package utils

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
			goldhtml.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()

	// References are matched after sanitizing, so the character sets exclude
	// anything that could open a tag or an attribute.
	topicRef = regexp.MustCompile(`\(bkz: ([\p{L}\p{N} ]{1,50})\)`)
	entryRef = regexp.MustCompile(`\(bkz: #([1-9][0-9]{0,9})\)`)
)

func init() {
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoFollowOnLinks(true)
}

// RenderEntry turns entry markdown into sanitized HTML and links
// "(bkz: topic)" and "(bkz: #id)" references.
func RenderEntry(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}

	sanitized := string(policy.SanitizeBytes(buf.Bytes()))
	sanitized = entryRef.ReplaceAllString(sanitized, `(bkz: <a href="/entry/$1">#$1</a>)`)
	sanitized = topicRef.ReplaceAllStringFunc(sanitized, func(m string) string {
		title := topicRef.FindStringSubmatch(m)[1]
		return fmt.Sprintf(`(bkz: <a href="/topic/%s">%s</a>)`, Slugify(title), title)
	})

	return EnhanceHTMLContent(sanitized)
}
