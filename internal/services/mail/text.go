// File: internal/services/mail/text.go
package mail

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\f\v]+`)
	newlineRun = regexp.MustCompile(`\n{2,}`)
)

// ExtractText turns an HTML mail body into compact plain text for prompting.
func ExtractText(htmlBody string) (string, error) {
	if strings.TrimSpace(htmlBody) == "" {
		return "", nil
	}

	md, err := htmltomarkdown.ConvertString(htmlBody)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from html: %w", err)
	}

	text := strings.ReplaceAll(md, "\u200b", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text), nil
}

// TextExtractor adapts ExtractText to an injectable collaborator.
type TextExtractor struct{}

func (TextExtractor) ExtractText(htmlBody string) (string, error) {
	return ExtractText(htmlBody)
}
