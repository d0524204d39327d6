package usecase

const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusSkipped  = "skipped"
	StatusNoEmails = "no_emails"
)

// StepResult is the outcome of one sync step for one user
type StepResult struct {
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	Count          int    `json:"count,omitempty"`
	NewSuggestions int    `json:"newSuggestions,omitempty"`
}

type InitialSyncResult struct {
	Calendar StepResult `json:"calendar"`
	Gmail    StepResult `json:"gmail"`
}

// UserSyncResult is one slot of a batch run
type UserSyncResult struct {
	UserID   string      `json:"userId"`
	Email    string      `json:"email"`
	Status   string      `json:"status"`
	Error    string      `json:"error,omitempty"`
	Calendar *StepResult `json:"calendar,omitempty"`
	Gmail    *StepResult `json:"gmail,omitempty"`
}

type BatchResult struct {
	SyncedUsers int              `json:"syncedUsers"`
	Results     []UserSyncResult `json:"results"`
}
