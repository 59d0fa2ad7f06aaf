package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_CuratedDomains(t *testing.T) {
	v := NewCollegeEmailVerifier()

	tests := []struct {
		email       string
		wantName    string
		wantCountry string
	}{
		{"alice@harvard.edu", "Harvard University", "USA"},
		{"bob@mit.edu", "Massachusetts Institute of Technology", "USA"},
		{"carol@stanford.edu", "Stanford University", "USA"},
		{"dave@student.mit.edu", "MIT (Student)", "USA"},
		{"eve@vit.ac.in", "Vellore Institute of Technology", "India"},
		{"frank@SNUCHENNAI.EDU.IN", "Shiv Nadar University Chennai", "India"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			result := v.Verify(tt.email)
			assert.True(t, result.IsValid)
			assert.True(t, result.IsCollegeEmail)
			require.NotNil(t, result.College)
			assert.True(t, result.College.Verified, "curated domains are verified")
			assert.Equal(t, tt.wantName, result.College.Name)
			assert.Equal(t, tt.wantCountry, result.College.Country)
		})
	}
}

func TestVerify_SuffixHeuristics(t *testing.T) {
	v := NewCollegeEmailVerifier()

	tests := []struct {
		email       string
		wantName    string
		wantCountry string
	}{
		{"x@berkeley.edu", "Berkeley University", "USA"},
		{"x@monash.edu.au", "Monash University", "Australia"},
		{"x@oxford.ac.uk", "Oxford University", "UK"},
		{"x@nus.edu.sg", "Nus University", "Singapore"},
		{"x@um.edu.my", "Um University", "Malaysia"},
		{"x@iitd.ac.in", "Iitd University", "India"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			result := v.Verify(tt.email)
			assert.True(t, result.IsValid)
			assert.True(t, result.IsCollegeEmail)
			require.NotNil(t, result.College)
			assert.False(t, result.College.Verified, "suffix matches are provisional")
			assert.Equal(t, tt.wantName, result.College.Name)
			assert.Equal(t, tt.wantCountry, result.College.Country)
		})
	}
}

func TestVerify_NoSubstringFalsePositives(t *testing.T) {
	v := NewCollegeEmailVerifier()

	// Domains that merely contain "edu" or "ac" must not classify as
	// educational.
	for _, email := range []string{"x@fakeedu.com", "x@educated.org", "x@acme.io"} {
		result := v.Verify(email)
		assert.True(t, result.IsValid, email)
		assert.False(t, result.IsCollegeEmail, email)
		assert.Nil(t, result.College, email)
	}
}

func TestVerify_InvalidFormat(t *testing.T) {
	v := NewCollegeEmailVerifier()

	for _, email := range []string{"", "no-at-sign", "two@@at.com", "spaces in@mail.com", "noperiod@domain"} {
		result := v.Verify(email)
		assert.False(t, result.IsValid, email)
		assert.False(t, result.IsCollegeEmail, email)
		assert.NotEmpty(t, result.Error, email)
	}
}

func TestVerify_ConsumerProviderSuggestions(t *testing.T) {
	v := NewCollegeEmailVerifier()

	result := v.Verify("someone@gmail.com")
	assert.True(t, result.IsValid)
	assert.False(t, result.IsCollegeEmail)
	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions[0], "university email")

	// Non-consumer, non-educational domain gets a .edu hint.
	result = v.Verify("someone@company.com")
	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions[0], "company.edu")
}

func TestVerify_Idempotent(t *testing.T) {
	v := NewCollegeEmailVerifier()

	first := v.Verify("alice@harvard.edu")
	second := v.Verify("alice@harvard.edu")
	assert.Equal(t, first, second, "classification is deterministic")
}

func TestExtractDomain(t *testing.T) {
	v := NewCollegeEmailVerifier()

	assert.Equal(t, "mit.edu", v.ExtractDomain("User@MIT.EDU"))
	assert.Equal(t, "", v.ExtractDomain("not-an-email"))
}

func TestIsVerifiedCollegeDomain(t *testing.T) {
	v := NewCollegeEmailVerifier()

	assert.True(t, v.IsVerifiedCollegeDomain("harvard.edu"))
	assert.True(t, v.IsVerifiedCollegeDomain("HARVARD.EDU"))
	assert.False(t, v.IsVerifiedCollegeDomain("berkeley.edu"))
}
