package ceac

import "time"

// Request identifies the case being looked up. Location is matched as a
// substring of the CEAC embassy dropdown's display text.
type Request struct {
	Location       string
	CaseNumber     string
	PassportNumber string
	Surname        string
}

// Result is the outcome of one status-check attempt. Exactly one of the
// success fields or Error is populated.
type Result struct {
	Success bool `json:"success"`

	Status              string    `json:"status,omitempty"`
	VisaType            string    `json:"visa_type,omitempty"`
	CaseCreated         string    `json:"case_created,omitempty"`
	CaseLastUpdated     string    `json:"case_last_updated,omitempty"`
	Description         string    `json:"description,omitempty"`
	CaseNumber          string    `json:"application_num,omitempty"`
	CaseNumberRequested string    `json:"application_num_origin,omitempty"`
	CheckedAt           time.Time `json:"checked_at,omitempty"`

	Error string `json:"error,omitempty"`
}

func failure(msg string) Result {
	return Result{Success: false, Error: msg}
}
