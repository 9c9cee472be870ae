package email

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLToText returns the visible text of an HTML fragment, one trimmed text
// node per line. Script and style contents are dropped.
func HTMLToText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var lines []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(lines, "\n")
		case html.StartTagToken:
			if name, _ := z.TagName(); isInvisible(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isInvisible(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				lines = append(lines, text)
			}
		}
	}
}

func isInvisible(tag string) bool {
	return tag == "script" || tag == "style" || tag == "head"
}

// renderPlainText writes an email to an operator-visible writer in place of sending it.
func renderPlainText(w io.Writer, header, to, subject, htmlBody string) {
	fmt.Fprintln(w, header)
	if to != "" {
		fmt.Fprintf(w, "To: %s\n", to)
	}
	if subject != "" {
		fmt.Fprintf(w, "Subject: %s\n", subject)
	}
	fmt.Fprintln(w, HTMLToText(htmlBody))
}
