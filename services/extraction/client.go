package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"syllabuddy/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	// maxPromptChars caps the syllabus text placed in the prompt. Longer
	// documents are silently truncated, not rejected.
	maxPromptChars = 6000
)

// Client calls the chat-completion API to turn raw syllabus text into a
// structured course + events result. One request per call, no retries;
// the pipeline decides what to do on failure.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

// NewClient builds an extraction client. baseURL and model fall back to
// the OpenAI defaults when empty.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat-completion response envelope.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the syllabus text to the model and parses the structured
// result. All failures come back as *ExtractionError with a reason tag.
func (c *Client) Extract(ctx context.Context, rawText string) (*models.ExtractionResult, error) {
	prompt := buildPrompt(rawText, time.Now())

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an assistant that extracts structured academic deadlines."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ExtractionError{Reason: ReasonBadPayload, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &ExtractionError{Reason: ReasonNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[extraction] http error: %v", err)
		return nil, &ExtractionError{Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[extraction] api error %d: %s", resp.StatusCode, string(body))
		return nil, &ExtractionError{Reason: ReasonNetwork, Err: fmt.Errorf("api status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExtractionError{Reason: ReasonNetwork, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ExtractionError{Reason: ReasonNoData, Err: fmt.Errorf("empty response body")}
	}

	var envelope chatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &ExtractionError{Reason: ReasonBadEnvelope, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(envelope.Choices) == 0 {
		return nil, &ExtractionError{Reason: ReasonNoData, Err: fmt.Errorf("no choices in response")}
	}

	content := StripCodeFence(envelope.Choices[0].Message.Content)

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, &ExtractionError{Reason: ReasonBadPayload, Err: fmt.Errorf("decode payload: %w", err)}
	}
	if result.Course == "" {
		return nil, &ExtractionError{Reason: ReasonBadPayload, Err: fmt.Errorf("payload missing course")}
	}

	return &result, nil
}

// buildPrompt assembles the structured-extraction prompt. The text is
// capped at maxPromptChars; ambiguous month/day-only mentions are resolved
// against today's date by the model.
func buildPrompt(rawText string, now time.Time) string {
	text := rawText
	if len(text) > maxPromptChars {
		// Back off to a rune boundary so the cap never splits a
		// multi-byte character.
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	return fmt.Sprintf(`Extract the course number (like CS 371L) and all assignments, exams, and major deadlines from the following syllabus text.

Return the result as a strict JSON object with two keys:
- "course": a string with the course number (e.g., "CS 371L")
- "events": an array of objects where each has an "event" and a "date" (formatted as MM-DD-YYYY)

If a date mentions only a month and day, resolve the year using today's date: %s.

Example:
{
    "course": "CS 371L",
    "events": [
        { "event": "Project 1 Due", "date": "06-13-2025" },
        { "event": "Midterm Exam", "date": "07-02-2025" }
    ]
}

Syllabus Text:
%s`, now.Format("January 2, 2006"), text)
}

// StripCodeFence removes a leading three-backtick (optionally "json"
// tagged) fence and a trailing fence from model output. It is idempotent
// and leaves unfenced content untouched.
func StripCodeFence(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
