package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// SampledResponse is one <response> block from a diversity-sampled answer.
type SampledResponse struct {
	Category    string  `json:"category,omitempty"`
	Text        string  `json:"text"`
	Probability float64 `json:"probability"`
	Reasoning   string  `json:"reasoning,omitempty"`
}

var (
	responseBlockRe = regexp.MustCompile(`(?s)<response>(.*?)</response>`)
	tagRes          = map[string]*regexp.Regexp{
		"category":    regexp.MustCompile(`(?s)<category>(.*?)</category>`),
		"text":        regexp.MustCompile(`(?s)<text>(.*?)</text>`),
		"probability": regexp.MustCompile(`(?s)<probability>(.*?)</probability>`),
		"reasoning":   regexp.MustCompile(`(?s)<reasoning>(.*?)</reasoning>`),
	}
)

// ParseSampledResponses extracts response blocks in order. Blocks without a
// text element are dropped; an unreadable probability is 0.
func ParseSampledResponses(raw string) []SampledResponse {
	blocks := responseBlockRe.FindAllStringSubmatch(raw, -1)
	out := make([]SampledResponse, 0, len(blocks))
	for _, b := range blocks {
		body := b[1]
		text, ok := tag(body, "text")
		if !ok || text == "" {
			continue
		}
		r := SampledResponse{Text: text}
		r.Category, _ = tag(body, "category")
		r.Reasoning, _ = tag(body, "reasoning")
		if p, ok := tag(body, "probability"); ok {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64); err == nil {
				if strings.HasSuffix(p, "%") {
					v /= 100
				}
				r.Probability = v
			}
		}
		out = append(out, r)
	}
	return out
}

func tag(body, name string) (string, bool) {
	m := tagRes[name].FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
