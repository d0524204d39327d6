package ai

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

type rawTask struct {
	EmailID     string `json:"emailId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// parseExtraction reads {"tasks":[...]} or a bare array out of a model answer.
func parseExtraction(raw string, today time.Time) ExtractionResult {
	text := stripCodeFence(raw)

	var rawTasks []rawTask
	if obj, ok := sliceBetween(text, "{", "}"); ok {
		var envelope struct {
			Tasks *[]rawTask `json:"tasks"`
		}
		if err := json.Unmarshal([]byte(obj), &envelope); err == nil && envelope.Tasks != nil {
			rawTasks = *envelope.Tasks
			return Extracted(toCandidates(rawTasks, today))
		}
	}
	if arr, ok := sliceBetween(text, "[", "]"); ok {
		if err := json.Unmarshal([]byte(arr), &rawTasks); err == nil {
			return Extracted(toCandidates(rawTasks, today))
		}
	}
	return Malformed(raw)
}

func toCandidates(rawTasks []rawTask, today time.Time) []TaskCandidate {
	candidates := make([]TaskCandidate, 0, len(rawTasks))
	for _, rt := range rawTasks {
		candidates = append(candidates, TaskCandidate{
			EmailID:     strings.TrimSpace(rt.EmailID),
			Title:       strings.TrimSpace(rt.Title),
			Description: strings.TrimSpace(rt.Description),
			Priority:    NormalizePriority(rt.Priority),
			DueDate:     ParseDueDate(rt.DueDate, today),
		})
	}
	return candidates
}

// parseNarrative reads {"boldPart","lightPart"}. One missing part is filled
// with its default; no usable part at all is ErrMalformedOutput.
func parseNarrative(raw string) (Narrative, error) {
	obj, ok := sliceBetween(stripCodeFence(raw), "{", "}")
	if !ok {
		return Narrative{}, ErrMalformedOutput
	}
	var parsed struct {
		BoldPart  string `json:"boldPart"`
		LightPart string `json:"lightPart"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return Narrative{}, ErrMalformedOutput
	}

	bold := strings.TrimSpace(parsed.BoldPart)
	light := strings.TrimSpace(parsed.LightPart)
	if bold == "" && light == "" {
		return Narrative{}, ErrMalformedOutput
	}
	if bold == "" {
		bold = DefaultBoldPart
	}
	if light == "" {
		light = DefaultLightPart
	}
	return Narrative{Bold: bold, Light: light}, nil
}

const (
	DefaultBoldPart  = "Your day is ready."
	DefaultLightPart = "Take it one step at a time."
)

// NormalizePriority maps model output onto high, medium or low.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high", "urgent":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}

var dueDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
}

// ParseDueDate resolves a due date to the start of a calendar day in
// today's location. Relative words are resolved against today.
func ParseDueDate(s string, today time.Time) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	loc := today.Location()
	for _, layout := range dueDateFormats {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			day := now.With(t.In(loc)).BeginningOfDay()
			return &day
		}
	}

	base := now.With(today).BeginningOfDay()
	var day time.Time
	switch lower := strings.ToLower(s); {
	case strings.Contains(lower, "today"), strings.Contains(lower, "eod"):
		day = base
	case strings.Contains(lower, "tomorrow"):
		day = base.AddDate(0, 0, 1)
	case strings.Contains(lower, "next week"):
		day = base.AddDate(0, 0, 7)
	default:
		return nil
	}
	return &day
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func sliceBetween(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	end := strings.LastIndex(s, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
