package ai

import (
	"testing"
	"time"
)

var testToday = time.Date(2026, 1, 8, 10, 30, 0, 0, time.UTC)

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		malformed bool
		want      int
	}{
		{"envelope", `{"tasks":[{"emailId":"m1","title":"Review Q1 budget proposal","priority":"high","dueDate":"2026-01-10"}]}`, false, 1},
		{"empty envelope", `{"tasks": []}`, false, 0},
		{"code fence", "```json\n{\"tasks\":[{\"emailId\":\"m1\",\"title\":\"Reply\"}]}\n```", false, 1},
		{"chatter around json", `Sure! Here you go: {"tasks":[{"emailId":"a","title":"x"},{"emailId":"b","title":"y"}]} Hope that helps`, false, 2},
		{"bare array", `[{"emailId":"m1","title":"Pay invoice"}]`, false, 1},
		{"prose", `I could not find any tasks.`, true, 0},
		{"truncated", `{"tasks":[{"emailId":"m1","title":"Rev`, true, 0},
		{"empty", ``, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseExtraction(tt.raw, testToday)
			if res.IsMalformed() != tt.malformed {
				t.Fatalf("malformed = %v, want %v", res.IsMalformed(), tt.malformed)
			}
			if got := len(res.Tasks()); got != tt.want {
				t.Errorf("len(Tasks) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseExtractionNormalizesFields(t *testing.T) {
	res := parseExtraction(`{"tasks":[{"emailId":" m1 ","title":"  Send invoice ","priority":"URGENT","dueDate":"tomorrow"},{"emailId":"m2","title":"x","priority":"whenever","dueDate":"someday"}]}`, testToday)
	tasks := res.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks", len(tasks))
	}
	first := tasks[0]
	if first.EmailID != "m1" || first.Title != "Send invoice" || first.Priority != "high" {
		t.Errorf("unexpected first candidate %+v", first)
	}
	if first.DueDate == nil || first.DueDate.Format("2006-01-02") != "2026-01-09" {
		t.Errorf("tomorrow resolved to %v", first.DueDate)
	}
	if tasks[1].Priority != "medium" || tasks[1].DueDate != nil {
		t.Errorf("unexpected second candidate %+v", tasks[1])
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-01-10", "2026-01-10"},
		{"2026-01-10T17:00:00Z", "2026-01-10"},
		{"today", "2026-01-08"},
		{"EOD", "2026-01-08"},
		{"next week", "2026-01-15"},
		{"", ""},
		{"when you can", ""},
	}
	for _, tt := range tests {
		got := ParseDueDate(tt.in, testToday)
		if tt.want == "" {
			if got != nil {
				t.Errorf("ParseDueDate(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDueDate(%q) = %v, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseNarrative(t *testing.T) {
	n, err := parseNarrative(`{"boldPart":"Two meetings today.","lightPart":"Start with the budget review."}`)
	if err != nil || n.Bold != "Two meetings today." || n.Light != "Start with the budget review." {
		t.Fatalf("got %+v, %v", n, err)
	}

	n, err = parseNarrative(`{"boldPart":"Quiet day."}`)
	if err != nil || n.Light != DefaultLightPart {
		t.Fatalf("missing light part not defaulted: %+v, %v", n, err)
	}

	if _, err := parseNarrative(`{}`); err != ErrMalformedOutput {
		t.Fatalf("empty object: err = %v", err)
	}
	if _, err := parseNarrative(`nope`); err != ErrMalformedOutput {
		t.Fatalf("prose: err = %v", err)
	}
}
