package domain

import (
	"encoding/json"
	"time"
)

type LeadStatus string

const (
	StatusPending    LeadStatus = "PENDING"
	StatusReachedOut LeadStatus = "REACHED_OUT"
)

// SubmissionDateLayout is how submissionDate is rendered for display.
const SubmissionDateLayout = "1/2/2006, 3:04:05 PM"

// Lead is one persisted intake record. Field names match leads.json.
type Lead struct {
	ID              int64      `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	LinkedInProfile string     `json:"linkedinProfile"`
	Country         string     `json:"country"`
	VisasOfInterest []string   `json:"visasOfInterest"`
	ResumeFileName  string     `json:"resumeFileName"`
	AdditionalInfo  string     `json:"additionalInfo"`
	Status          LeadStatus `json:"status"`
	SubmissionDate  string     `json:"submissionDate"`
}

// Submission is the client payload for a new lead. Pointer fields let
// validation tell "absent" apart from "empty".
type Submission struct {
	FirstName       *string  `json:"firstName"`
	LastName        *string  `json:"lastName"`
	Email           *string  `json:"email"`
	LinkedInProfile *string  `json:"linkedinProfile"`
	Country         *string  `json:"country"`
	VisasOfInterest []string `json:"visasOfInterest"`
	ResumeFileName  *string  `json:"resumeFileName"`
	AdditionalInfo  *string  `json:"additionalInfo"`
}

// UnmarshalJSON decodes field by field. A field of the wrong JSON type is left
// unset so validation reports it the same way as a missing one. Only a body
// that is not a JSON object is an error.
func (s *Submission) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Submission{
		FirstName:       optString(raw["firstName"]),
		LastName:        optString(raw["lastName"]),
		Email:           optString(raw["email"]),
		LinkedInProfile: optString(raw["linkedinProfile"]),
		Country:         optString(raw["country"]),
		VisasOfInterest: stringList(raw["visasOfInterest"]),
		ResumeFileName:  optString(raw["resumeFileName"]),
		AdditionalInfo:  optString(raw["additionalInfo"]),
	}
	return nil
}

func optString(r json.RawMessage) *string {
	if len(r) == 0 {
		return nil
	}
	var v *string
	if err := json.Unmarshal(r, &v); err != nil {
		return nil
	}
	return v
}

// stringList is nil unless r is an array made only of strings.
func stringList(r json.RawMessage) []string {
	if len(r) == 0 {
		return nil
	}
	var v []string
	if err := json.Unmarshal(r, &v); err != nil {
		return nil
	}
	return v
}

var submissionDateLayouts = []string{
	SubmissionDateLayout,
	"1/2/2006, 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseSubmissionDate accepts the display layout plus the ISO-ish forms older
// files may carry. Display strings carry no zone, so they parse as local time.
func ParseSubmissionDate(s string) (time.Time, bool) {
	for _, layout := range submissionDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
