// Package capture turns free-form text (a brain dump, a voice transcript)
// into task drafts via a generative-AI text endpoint. The endpoint is an
// opaque collaborator: send prompt text, get back a JSON array of drafts or
// a parse failure.
package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrUnparsable is returned when the model response does not contain a JSON
// task array even after the permissive extraction fallback.
var ErrUnparsable = errors.New("could not parse task extraction response")

// TaskDraft is one extracted actionable item.
type TaskDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedTime int    `json:"estimatedTime"`
}

type Extractor struct {
	Endpoint   string // e.g. https://generativelanguage.googleapis.com/v1beta/models
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

const promptTemplate = `Extract actionable tasks from the following text. Return ONLY a JSON array of tasks in this exact format:
[{"title": "task title", "description": "brief description", "estimatedTime": number_in_minutes}]

Rules:
- Each task should be a clear, actionable item
- Keep titles concise but descriptive
- Estimate time in minutes (5-180 range)
- If no clear tasks, return empty array []
- Do not include any other text or explanation

Text: %q`

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content      `json:"contents"`
	GenerationConfig map[string]any `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Extract sends the transcript to the model and parses the returned task
// array. An empty transcript is rejected without a request.
func (e *Extractor) Extract(ctx context.Context, transcript string) ([]TaskDraft, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}
	if e.APIKey == "" {
		return nil, fmt.Errorf("capture api key not set")
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, transcript)}}}},
		GenerationConfig: map[string]any{
			"temperature":     0.3,
			"maxOutputTokens": 1000,
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(e.Endpoint, "/"), e.Model, e.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := e.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("capture request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capture endpoint returned status %d", resp.StatusCode)
	}

	var res generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, ErrUnparsable
	}
	return ParseDrafts(res.Candidates[0].Content.Parts[0].Text)
}

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// ParseDrafts parses the model text as a JSON draft array. When the text is
// not pure JSON it falls back to extracting the outermost bracketed block.
// Drafts without a title are dropped.
func ParseDrafts(text string) ([]TaskDraft, error) {
	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &drafts); err != nil {
		match := jsonArrayPattern.FindString(text)
		if match == "" {
			return nil, ErrUnparsable
		}
		if err := json.Unmarshal([]byte(match), &drafts); err != nil {
			return nil, ErrUnparsable
		}
	}
	filtered := drafts[:0]
	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			continue
		}
		if d.EstimatedTime < 0 {
			d.EstimatedTime = 0
		}
		filtered = append(filtered, d)
	}
	return filtered, nil
}
