package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"mobile with separators", "0412 345 678", "0412 345 678", true},
		{"mobile compact", "0490193347", "0490 193 347", true},
		{"mobile missing leading zero", "412345678", "0412 345 678", true},
		{"landline qld", "0754915522", "(07) 5491 5522", true},
		{"landline formatted input", "(02) 9999 8888", "(02) 9999 8888", true},
		{"1300 number", "1300123456", "1300 123 456", true},
		{"1800 number", "1800 123 456", "1800 123 456", true},
		{"eight digits", "54915522", "5491 5522", true},
		{"nine digits not mobile", "254915522", "254 915 522", true},
		{"twelve digits country code", "614123456789", "614123456789", true},
		{"too short", "12345", "12345", false},
		{"too long", "1234567890123", "1234567890123", false},
		{"empty", "", "", false},
		{"letters only", "call us", "call us", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Phone(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhoneIdempotent(t *testing.T) {
	first, ok := Phone("0490193347")
	assert.True(t, ok)
	second, ok := Phone(first)
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{" Admin@Wisemind.COM.AU ", "admin@wisemind.com.au", true},
		{"jane.smith+intake@clinic.org", "jane.smith+intake@clinic.org", true},
		{"not-an-email", "not-an-email", false},
		{"Missing@Domain", "Missing@Domain", false}, // invalid keeps original casing
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Email(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"wisemind.com.au", "http://wisemind.com.au", true},
		{"https://wisemind.com.au/our-team", "https://wisemind.com.au/our-team", true},
		{" http://example.com ", "http://example.com", true},
		{"not a url", "http://not a url", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := URL(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"$220", "220", true},
		{"$220.00", "220.00", true},
		{"220", "220", true},
		{"from $185.50 per session", "185.50", true},
		{"call for pricing", "call for pricing", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Price(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"C", "C", true},
		{"g", "G", true},
		{"Clinical Psychologist", "C", true},
		{"registered CLINICAL psych", "C", true},
		{"General", "G", true},
		{"psychologist (general)", "G", true},
		{"Counsellor", "C", true}, // C-prefix rule is deliberately broad
		{"Social Worker", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Category(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCategoryIdempotent(t *testing.T) {
	first, ok := Category("Clinical Psychologist")
	assert.True(t, ok)
	second, ok := Category(first)
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestStaffName(t *testing.T) {
	assert.Equal(t, "Dr Jane Smith", StaffName("  dr   jane smith "))
	assert.Equal(t, "Alan McDonald", StaffName("alan McDonald"))
	assert.Equal(t, "", StaffName("   "))
}
