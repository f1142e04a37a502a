package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads search results from a local JSON file for offline/testing use.
// The JSON file format is an array of objects:
// {"title": "...", "link": "...", "snippet": "..."}.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Title    string   `json:"title"`
		Link     string   `json:"link"`
		Snippet  string   `json:"snippet"`
		Engines  []string `json:"engines"`
		Category string   `json:"category"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.Link == "" {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Snippet), q) {
			out = append(out, Result{
				Title:    r.Title,
				Link:     r.Link,
				Snippet:  r.Snippet,
				Engines:  r.Engines,
				Category: r.Category,
				Source:   f.Name(),
			})
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
