package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sendmenow/sendmenow/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type LegalPage struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
}

// LegalService serves markdown legal pages (terms and conditions, privacy)
// from the content directory.
type LegalService struct {
	contentDir string
}

func NewLegalService(contentDir string) *LegalService {
	return &LegalService{
		contentDir: filepath.Join(contentDir, "legal"),
	}
}

func (s *LegalService) Page(slug string) (*LegalPage, error) {
	filePath := filepath.Join(s.contentDir, slug+".md")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", slug, err)
	}

	parser := markdown.NewParser()
	html, meta, err := parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		// Generate title from slug
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	lastUpdated, _ := meta["lastUpdated"].(string)
	if lastUpdated == "" {
		info, statErr := os.Stat(filePath)
		if statErr == nil {
			lastUpdated = info.ModTime().Format("January 2, 2006")
		}
	} else {
		t, parseErr := time.Parse("2006-01-02", lastUpdated)
		if parseErr == nil {
			lastUpdated = t.Format("January 2, 2006")
		}
	}

	return &LegalPage{
		Title:       title,
		Slug:        slug,
		Content:     string(html),
		LastUpdated: lastUpdated,
	}, nil
}
