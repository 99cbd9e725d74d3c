package models

import (
	"strings"
	"testing"
)

func strPtr(s string) *string     { return &s }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// fullPitchInput returns an input with every required field populated
func fullPitchInput() PitchInput {
	in := PitchInput{
		BusinessName:         strPtr("Acme Robotics"),
		Tagline:              strPtr("Robots for everyone"),
		Website:              strPtr("https://acme.example"),
		Industry:             strPtr("Robotics"),
		Stage:                strPtr("Seed"),
		FoundedYear:          intPtr(2022),
		TeamSize:             intPtr(5),
		Country:              strPtr("Pakistan"),
		City:                 strPtr("Karachi"),
		ProblemStatement:     strPtr("Manual work is slow"),
		Solution:             strPtr("Affordable robots"),
		ProductDescription:   strPtr("A robot arm"),
		BusinessModel:        strPtr("B2B"),
		RevenueModel:         strPtr("Subscription"),
		TargetMarket:         strPtr("Factories"),
		MarketSize:           strPtr("$2B"),
		CompetitiveLandscape: strPtr("Few incumbents"),
		CompetitiveAdvantage: strPtr("Price"),
		GoToMarketStrategy:   strPtr("Direct sales"),
		TractionSummary:      strPtr("10 pilots"),
		MonthlyRevenue:       floatPtr(12000),
		MonthlyBurnRate:      floatPtr(8000),
		PreviousFunding:      strPtr("None"),
		FundingAmount:        floatPtr(500000),
		EquityOffered:        floatPtr(10),
		Valuation:            floatPtr(5000000),
		UseOfFunds:           strPtr("Hiring"),
		ExitStrategy:         strPtr("Acquisition"),
		FounderName:          strPtr("Sara Khan"),
		FounderRole:          strPtr("CEO"),
		FounderEmail:         strPtr("sara@acme.example"),
		FounderLinkedIn:      strPtr("https://linkedin.com/in/sara"),
		TeamOverview:         strPtr("Two engineers, one designer"),
		RisksAndMitigation:   strPtr("Supply chain; dual sourcing"),
		LogoURL:              strPtr("https://res.cloudinary.com/x/image/upload/v1/logo.png"),
		PitchDeckURL:         strPtr("https://res.cloudinary.com/x/image/upload/v1/deck.pdf"),
	}
	return in
}

func TestMissingRequiredFieldsEmptyInput(t *testing.T) {
	in := PitchInput{}
	missing := in.MissingRequiredFields()

	if len(missing) != 36 {
		t.Fatalf("expected 36 missing entries for an empty input, got %d: %v", len(missing), missing)
	}
	if missing[0] != "Business Name" {
		t.Errorf("expected first missing field to be Business Name, got %q", missing[0])
	}
	if missing[len(missing)-1] != "Pitch Deck" {
		t.Errorf("expected last missing field to be Pitch Deck, got %q", missing[len(missing)-1])
	}
	if missing[len(missing)-2] != "Company Logo" {
		t.Errorf("expected Company Logo before Pitch Deck, got %q", missing[len(missing)-2])
	}
}

func TestMissingRequiredFieldsCompleteInput(t *testing.T) {
	in := fullPitchInput()
	if missing := in.MissingRequiredFields(); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}
}

func TestMissingRequiredFieldsBlankStringCountsAsMissing(t *testing.T) {
	in := fullPitchInput()
	in.Tagline = strPtr("   ")
	missing := in.MissingRequiredFields()
	if len(missing) != 1 || missing[0] != "Tagline" {
		t.Fatalf("expected only Tagline missing, got %v", missing)
	}
}

func TestMissingRequiredFieldsZeroNumericIsPresent(t *testing.T) {
	in := fullPitchInput()
	// An explicit zero valuation is a legitimate value, not an omission
	in.Valuation = floatPtr(0)
	in.MonthlyRevenue = floatPtr(0)
	if missing := in.MissingRequiredFields(); len(missing) != 0 {
		t.Fatalf("explicit zero numeric fields must not count as missing, got %v", missing)
	}
}

func TestApplyToMergesOnlySuppliedFields(t *testing.T) {
	pitch := Pitch{
		BusinessName: "Old Name",
		Tagline:      "Old tagline",
		TeamSize:     3,
		Valuation:    1000000,
	}

	in := PitchInput{
		BusinessName: strPtr("New Name"),
		Valuation:    floatPtr(0),
	}
	in.ApplyTo(&pitch)

	if pitch.BusinessName != "New Name" {
		t.Errorf("supplied field not applied, got %q", pitch.BusinessName)
	}
	if pitch.Tagline != "Old tagline" {
		t.Errorf("omitted field was overwritten, got %q", pitch.Tagline)
	}
	if pitch.TeamSize != 3 {
		t.Errorf("omitted numeric field was overwritten, got %d", pitch.TeamSize)
	}
	if pitch.Valuation != 0 {
		t.Errorf("explicit zero must overwrite, got %f", pitch.Valuation)
	}
}

func TestApplyToReplacesSlicesWholesale(t *testing.T) {
	pitch := Pitch{
		DemoVideoURLs:    []string{"a", "b"},
		FinancialDocURLs: []string{"x"},
	}

	in := PitchInput{DemoVideoURLs: []string{"c"}}
	in.ApplyTo(&pitch)

	if len(pitch.DemoVideoURLs) != 1 || pitch.DemoVideoURLs[0] != "c" {
		t.Errorf("supplied slice must replace, got %v", pitch.DemoVideoURLs)
	}
	if len(pitch.FinancialDocURLs) != 1 || pitch.FinancialDocURLs[0] != "x" {
		t.Errorf("omitted slice must be kept, got %v", pitch.FinancialDocURLs)
	}
}

func TestSnapshotValidatesMergedPitch(t *testing.T) {
	var pitch Pitch
	in := fullPitchInput()
	in.ApplyTo(&pitch)

	snapshot := pitch.Snapshot()
	if missing := snapshot.MissingRequiredFields(); len(missing) != 0 {
		t.Fatalf("snapshot of a complete pitch reported missing fields: %v", missing)
	}

	pitch.Tagline = ""
	pitch.TeamSize = 0
	snapshot = pitch.Snapshot()
	missing := snapshot.MissingRequiredFields()
	if len(missing) != 2 {
		t.Fatalf("expected Tagline and Team Size missing, got %v", missing)
	}
}

func TestEditableAndLocked(t *testing.T) {
	cases := []struct {
		status   PitchStatus
		editable bool
	}{
		{PitchStatusDraft, true},
		{PitchStatusRejected, true},
		{PitchStatusPending, false},
		{PitchStatusApproved, false},
	}
	for _, tc := range cases {
		p := Pitch{Status: tc.status}
		if p.Editable() != tc.editable {
			t.Errorf("status %s: expected editable=%v", tc.status, tc.editable)
		}
	}

	p := Pitch{RejectionCount: MaxPitchRejections}
	if p.Locked() {
		t.Errorf("a pitch at exactly %d rejections must not be locked yet", MaxPitchRejections)
	}
	p.RejectionCount++
	if !p.Locked() {
		t.Errorf("a pitch past %d rejections must be locked", MaxPitchRejections)
	}
}

func TestModerationText(t *testing.T) {
	p := Pitch{
		BusinessName:     "ACME",
		ProblemStatement: "Slow WORK",
		Solution:         "Robots",
	}
	text := p.ModerationText()
	if text != strings.ToLower(text) {
		t.Errorf("moderation text must be lowercased, got %q", text)
	}
	for _, want := range []string{"acme", "slow work", "robots"} {
		if !strings.Contains(text, want) {
			t.Errorf("moderation text missing %q: %q", want, text)
		}
	}
}

func TestAssetURLs(t *testing.T) {
	p := Pitch{
		LogoURL:          "logo",
		FinancialDocURLs: []string{"f1", "f2"},
		DemoVideoURLs:    []string{"v1"},
	}
	urls := p.AssetURLs()
	if len(urls) != 4 {
		t.Fatalf("expected 4 asset URLs, got %v", urls)
	}
}
