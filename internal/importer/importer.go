// Package importer reads prompt libraries exported from other tools.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

var ErrUnsupportedFormat = errors.New("unsupported import format")

// Entry is one imported prompt.
type Entry struct {
	Title     string   `json:"title"`
	Prompt    string   `json:"prompt"`
	Domain    string   `json:"domain,omitempty"`
	Framework string   `json:"framework,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Result holds the parsed entries and how many records lacked a prompt body.
type Result struct {
	Entries []Entry
	Skipped int
}

// DetectFormat maps a file name to a Format by extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".txt", ".md", ".text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// ParseFormat accepts a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func Parse(format Format, data []byte) (Result, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatJSON:
		entries, err = parseJSON(data)
	case FormatCSV:
		entries, err = parseCSV(data)
	case FormatText:
		entries = parseText(data)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		e.Prompt = strings.TrimSpace(e.Prompt)
		e.Title = strings.TrimSpace(e.Title)
		if e.Prompt == "" {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	return res, nil
}

type jsonEntry struct {
	Title      string   `json:"title"`
	Prompt     string   `json:"prompt"`
	BasePrompt string   `json:"basePrompt"`
	Domain     string   `json:"domain"`
	Framework  string   `json:"framework"`
	Tags       []string `json:"tags"`
}

func parseJSON(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		repaired, err := jsonrepair.JSONRepair(string(trimmed))
		if err != nil {
			return nil, fmt.Errorf("failed to repair JSON: %w", err)
		}
		trimmed = []byte(repaired)
	}

	var raw []jsonEntry
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Prompts []jsonEntry `json:"prompts"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode JSON import: %w", err)
		}
		raw = wrapper.Prompts
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON import: %w", err)
	}

	out := make([]Entry, 0, len(raw))
	for _, r := range raw {
		body := r.Prompt
		if body == "" {
			body = r.BasePrompt
		}
		out = append(out, Entry{Title: r.Title, Prompt: body, Domain: r.Domain, Framework: r.Framework, Tags: r.Tags})
	}
	return out, nil
}

func parseCSV(data []byte) ([]Entry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV import is empty")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	promptCol, ok := cols["prompt"]
	if !ok {
		promptCol, ok = cols["baseprompt"]
	}
	if !ok {
		return nil, errors.New("CSV import needs a prompt or basePrompt column")
	}

	field := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var out []Entry
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		e := Entry{
			Title:     field(rec, "title"),
			Domain:    strings.TrimSpace(field(rec, "domain")),
			Framework: strings.TrimSpace(field(rec, "framework")),
			Tags:      splitTags(field(rec, "tags")),
		}
		if promptCol < len(rec) {
			e.Prompt = rec[promptCol]
		}
		out = append(out, e)
	}
	return out, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseText splits on lines holding only "---". A block whose first line is
// followed by a blank line uses that first line as its title.
func parseText(data []byte) []Entry {
	var blocks [][]string
	var cur []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "---" {
			blocks = append(blocks, cur)
			cur = nil
			continue
		}
		cur = append(cur, line)
	}
	blocks = append(blocks, cur)

	out := make([]Entry, 0, len(blocks))
	for _, lines := range blocks {
		for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			continue
		}
		var e Entry
		if len(lines) > 2 && strings.TrimSpace(lines[1]) == "" {
			e.Title = lines[0]
			lines = lines[2:]
		}
		e.Prompt = strings.Join(lines, "\n")
		out = append(out, e)
	}
	return out
}
