package mail

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"time"
)

//go:embed template.html
var templateHTML string

var (
	placeholderRe = regexp.MustCompile(`{{(\w+)}}`)
	tagStripRe    = regexp.MustCompile(`<[^>]*>`)
)

// conditionalFields are the optional template regions: a {{#if field}}...{{/if}}
// block is removed entirely when the corresponding value is empty.
var conditionalFields = []string{"details", "buttonText", "additionalInfo"}

// RenderHTML produces the HTML body by placeholder substitution and
// conditional-block removal.
func RenderHTML(msg *Message) string {
	values := map[string]string{
		"subject":        msg.Subject,
		"greeting":       greetingOrDefault(msg.Greeting),
		"message":        msg.Body,
		"details":        msg.Details,
		"buttonText":     msg.ButtonText,
		"buttonUrl":      buttonURLOrDefault(msg.ButtonURL),
		"additionalInfo": msg.AdditionalInfo,
		"year":           fmt.Sprintf("%d", time.Now().Year()),
	}

	html := templateHTML
	for _, field := range conditionalFields {
		html = applyConditional(html, field, values[field] != "")
	}

	return placeholderRe.ReplaceAllStringFunc(html, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := values[key]
		if !ok {
			return m
		}
		return v
	})
}

// RenderText produces the stripped plain-text fallback.
func RenderText(msg *Message) string {
	parts := []string{
		greetingOrDefault(msg.Greeting),
		msg.Body,
	}
	if msg.Details != "" {
		parts = append(parts, strings.TrimSpace(tagStripRe.ReplaceAllString(msg.Details, "")))
	}
	if msg.ButtonText != "" && msg.ButtonURL != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", msg.ButtonText, msg.ButtonURL))
	}
	if msg.AdditionalInfo != "" {
		parts = append(parts, msg.AdditionalInfo)
	}
	return strings.Join(parts, "\n\n")
}

func applyConditional(html, field string, keep bool) string {
	re := regexp.MustCompile(`(?s){{#if ` + field + `}}(.*?){{/if}}`)
	if keep {
		return re.ReplaceAllString(html, "$1")
	}
	return re.ReplaceAllString(html, "")
}

func greetingOrDefault(greeting string) string {
	if greeting == "" {
		return "Hello!"
	}
	return greeting
}

func buttonURLOrDefault(url string) string {
	if url == "" {
		return "#"
	}
	return url
}
