package ai

import (
	"fmt"
	"strings"
	"time"
)

const (
	extractionSystemPrompt = "You extract actionable tasks from emails for the recipient. Return only valid JSON. Be generous and capture all potential action items."
	narrativeSystemPrompt  = "You are a calm daily companion. Return only valid JSON with encouraging, human language."

	extractionTemperature = 0.3
	narrativeTemperature  = 0.7
)

func buildExtractionPrompt(emails []EmailInput, today time.Time) string {
	var b strings.Builder
	for i, e := range emails {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Email %d (ID: %s):\nFrom: %s\nSubject: %s\nBody: %s\n---", i+1, e.ID, e.From, e.Subject, e.Body)
	}

	return fmt.Sprintf(`You are analyzing emails to extract actionable tasks for the email recipient.

For each email below, decide whether it contains an action item that the RECIPIENT has to do (not the sender or others).

Look for:
1. Direct requests: "Can you...", "Please...", "Could you...", "Don't forget to..."
2. Deadlines or time constraints: "by Friday", "before EOD", "ASAP", "this week"
3. Action verbs aimed at the recipient: review, send, submit, approve, schedule, reply, confirm, update, prepare
4. Questions that need an answer
5. Follow-ups: "waiting for your feedback", "let me know"
6. Reminders that need action: bills to pay, appointments to confirm, deliveries to track
7. Meeting invites, documents to review or sign
8. Implicit actions ("Here's the doc" usually means "review this doc")

Ignore:
- Newsletters and updates without a specific request
- Automated notifications that need no action
- Marketing email

For each task give:
- emailId: the ID of the email exactly as written above
- title: clear, starts with a verb, at most 50 characters (e.g. "Review Q1 budget proposal")
- description: one or two sentences of context: who sent it and what they need
- priority: "high" (urgent, ASAP, due today or tomorrow), "medium" (general requests, due in a few days) or "low" (optional, no deadline)
- dueDate: YYYY-MM-DD when a deadline is mentioned. Resolve relative dates ("Friday", "next Monday", "EOD") from today: %s

Return at most one task per email.

Return valid JSON only:
{
  "tasks": [
    {
      "emailId": "email_id_here",
      "title": "Review Q1 budget proposal",
      "description": "Sarah from Finance needs feedback by Friday",
      "priority": "high",
      "dueDate": "2026-01-10"
    }
  ]
}

If there are no actionable tasks, return {"tasks": []}

Emails to analyze:
%s`, today.Format("2006-01-02"), b.String())
}

func buildNarrativePrompt(in DailySummaryInput) string {
	var meetings []string
	for i, m := range in.Meetings {
		if i == 3 {
			break
		}
		meetings = append(meetings, fmt.Sprintf("%s - %s", m.StartTime.Format("3:04 PM"), m.Title))
	}
	tasks := firstN(in.TopTasks, 3)
	subjects := firstN(in.EmailSubjects, 3)

	meetingBlock := "No meetings scheduled"
	if len(meetings) > 0 {
		meetingBlock = "Meeting details:\n" + strings.Join(meetings, "\n")
	}
	emailBlock := "Inbox clear"
	if len(subjects) > 0 {
		emailBlock = "Email subjects:\n" + strings.Join(subjects, "\n")
	}
	taskBlock := "No active tasks"
	if len(tasks) > 0 {
		taskBlock = "Top tasks:\n" + strings.Join(tasks, "\n")
	}

	return fmt.Sprintf(`You are a calm, encouraging daily companion. Write a short two-part morning summary that is specific to today's actual events.

Constraints:
- At most 260 characters for both parts together
- One or two relevant emojis in total
- Mention real meeting times, titles or email subjects when possible

Part 1 (bold, factual): a short assessment of what is happening today
Part 2 (light, encouraging): a brief direction or encouragement

Context:
- Meetings today: %d
%s
- New email actions: %d
%s
%s

Example:
{
  "boldPart": "3 meetings today starting at 9am, plus 2 urgent emails to handle.",
  "lightPart": "Tackle the emails first, then flow through the meetings. You've got this."
}

Format as JSON:
{
  "boldPart": "...",
  "lightPart": "..."
}`, len(in.Meetings), meetingBlock, in.EmailActionsCount, emailBlock, taskBlock)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
