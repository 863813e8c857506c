package leads

import (
	"regexp"
	"strings"

	"leadintake/internal/domain"
)

var (
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	linkedInRe = regexp.MustCompile(`^https://www\.linkedin\.com/in/[a-zA-Z0-9_-]+/?$`)
)

const (
	MsgFirstName = "First Name is required."
	MsgLastName  = "Last Name is required."
	MsgEmail     = "Valid Email is required."
	MsgLinkedIn  = "Valid LinkedIn Profile URL is required."
	MsgCountry   = "Country is required."
	MsgVisas     = "At least one Visa of Interest is required."
	MsgResume    = "Resume file name is invalid or missing."
)

// Validate checks every rule and returns all violations in field order.
// An empty result means the submission is acceptable.
func Validate(s domain.Submission) []string {
	var errs []string

	if blank(s.FirstName) {
		errs = append(errs, MsgFirstName)
	}
	if blank(s.LastName) {
		errs = append(errs, MsgLastName)
	}
	if s.Email == nil || !emailRe.MatchString(*s.Email) {
		errs = append(errs, MsgEmail)
	}
	if s.LinkedInProfile == nil || !linkedInRe.MatchString(*s.LinkedInProfile) {
		errs = append(errs, MsgLinkedIn)
	}
	if blank(s.Country) {
		errs = append(errs, MsgCountry)
	}
	if len(s.VisasOfInterest) == 0 {
		errs = append(errs, MsgVisas)
	}
	if blank(s.ResumeFileName) {
		errs = append(errs, MsgResume)
	}

	return errs
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
