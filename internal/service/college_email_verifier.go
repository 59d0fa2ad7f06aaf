package service

import (
	"regexp"
	"strings"
)

// CollegeInfo describes a recognized educational institution.
type CollegeInfo struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Country string `json:"country"`
	Type    string `json:"type"` // university, college, institute
	// Verified is true only for curated domains; suffix-matched domains
	// are accepted provisionally with Verified=false.
	Verified bool `json:"verified"`
}

// EmailVerificationResult is the classifier output.
type EmailVerificationResult struct {
	IsValid        bool         `json:"is_valid"`
	IsCollegeEmail bool         `json:"is_college_email"`
	College        *CollegeInfo `json:"college_info,omitempty"`
	Domain         string       `json:"domain"`
	Suggestions    []string     `json:"suggestions,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// Curated table of known institutional domains. Exact match wins and is
// marked verified.
var verifiedCollegeDomains = map[string]CollegeInfo{
	"snuchennai.edu.in": {
		Name: "Shiv Nadar University Chennai", Domain: "snuchennai.edu.in",
		Country: "India", Type: "university", Verified: true,
	},
	"vit.ac.in": {
		Name: "Vellore Institute of Technology", Domain: "vit.ac.in",
		Country: "India", Type: "institute", Verified: true,
	},
	"iitm.ac.in": {
		Name: "Indian Institute of Technology Madras", Domain: "iitm.ac.in",
		Country: "India", Type: "institute", Verified: true,
	},
	"anna.ac.in": {
		Name: "Anna University", Domain: "anna.ac.in",
		Country: "India", Type: "university", Verified: true,
	},
	"srmist.edu.in": {
		Name: "SRM Institute of Science and Technology", Domain: "srmist.edu.in",
		Country: "India", Type: "institute", Verified: true,
	},
	"harvard.edu": {
		Name: "Harvard University", Domain: "harvard.edu",
		Country: "USA", Type: "university", Verified: true,
	},
	"mit.edu": {
		Name: "Massachusetts Institute of Technology", Domain: "mit.edu",
		Country: "USA", Type: "institute", Verified: true,
	},
	"stanford.edu": {
		Name: "Stanford University", Domain: "stanford.edu",
		Country: "USA", Type: "university", Verified: true,
	},
	"student.harvard.edu": {
		Name: "Harvard University (Student)", Domain: "student.harvard.edu",
		Country: "USA", Type: "university", Verified: true,
	},
	"student.mit.edu": {
		Name: "MIT (Student)", Domain: "student.mit.edu",
		Country: "USA", Type: "institute", Verified: true,
	},
}

// Educational domain suffixes. Matched against whole labels, never as
// substrings, so "fakeedu.com" cannot slip through.
var educationalSuffixes = []struct {
	Suffix  string
	Country string
}{
	{".edu.in", "India"},
	{".ac.in", "India"},
	{".edu.au", "Australia"},
	{".ac.uk", "UK"},
	{".edu.sg", "Singapore"},
	{".edu.my", "Malaysia"},
	{".edu", "USA"},
}

var emailFormatRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Consumer mail providers that commonly show up instead of a university address.
var consumerMailProviders = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
}

// CollegeEmailVerifier classifies email addresses against a static
// table of institutional domains. It holds no mutable state; a single
// instance is safe for concurrent use.
type CollegeEmailVerifier struct{}

// NewCollegeEmailVerifier creates a new classifier.
func NewCollegeEmailVerifier() *CollegeEmailVerifier {
	return &CollegeEmailVerifier{}
}

// Verify classifies a candidate email address.
func (v *CollegeEmailVerifier) Verify(email string) EmailVerificationResult {
	if !v.IsValidEmailFormat(email) {
		return EmailVerificationResult{
			IsValid:        false,
			IsCollegeEmail: false,
			Domain:         "",
			Error:          "Invalid email format",
		}
	}

	domain := v.ExtractDomain(email)

	if info, ok := verifiedCollegeDomains[domain]; ok {
		college := info
		return EmailVerificationResult{
			IsValid:        true,
			IsCollegeEmail: true,
			College:        &college,
			Domain:         domain,
		}
	}

	for _, pattern := range educationalSuffixes {
		if strings.HasSuffix(domain, pattern.Suffix) {
			return EmailVerificationResult{
				IsValid:        true,
				IsCollegeEmail: true,
				Domain:         domain,
				College: &CollegeInfo{
					Name:     formatCollegeName(domain),
					Domain:   domain,
					Country:  pattern.Country,
					Type:     "university",
					Verified: false,
				},
			}
		}
	}

	return EmailVerificationResult{
		IsValid:        true,
		IsCollegeEmail: false,
		Domain:         domain,
		Suggestions:    domainSuggestions(domain),
		Error:          "Email domain does not appear to be from a university or college",
	}
}

// IsValidEmailFormat checks the minimal local@domain.tld shape.
func (v *CollegeEmailVerifier) IsValidEmailFormat(email string) bool {
	return emailFormatRegexp.MatchString(email)
}

// ExtractDomain returns the lower-cased domain part of an email.
func (v *CollegeEmailVerifier) ExtractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

// IsVerifiedCollegeDomain reports whether the domain is in the curated table.
func (v *CollegeEmailVerifier) IsVerifiedCollegeDomain(domain string) bool {
	info, ok := verifiedCollegeDomains[strings.ToLower(domain)]
	return ok && info.Verified
}

// GetCollegeInfo returns curated info for a domain, if present.
func (v *CollegeEmailVerifier) GetCollegeInfo(domain string) (*CollegeInfo, bool) {
	info, ok := verifiedCollegeDomains[strings.ToLower(domain)]
	if !ok {
		return nil, false
	}
	college := info
	return &college, true
}

// formatCollegeName derives a best-effort institution name from a
// suffix-matched domain: strip the educational suffix, title-case the
// remaining labels.
func formatCollegeName(domain string) string {
	name := domain
	for _, pattern := range educationalSuffixes {
		if strings.HasSuffix(name, pattern.Suffix) {
			name = strings.TrimSuffix(name, pattern.Suffix)
			break
		}
	}

	words := strings.Split(name, ".")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ") + " University"
}

func domainSuggestions(domain string) []string {
	var suggestions []string

	if consumerMailProviders[domain] {
		suggestions = append(suggestions, "Did you mean to use your university email instead?")
	}

	if !strings.Contains(domain, ".edu") && !strings.Contains(domain, ".ac") {
		firstLabel := strings.Split(domain, ".")[0]
		suggestions = append(suggestions, "Did you mean "+firstLabel+".edu?")
	}

	return suggestions
}
