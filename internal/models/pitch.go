package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PitchStatus is the moderation state of a pitch
type PitchStatus string

const (
	PitchStatusDraft    PitchStatus = "draft"
	PitchStatusPending  PitchStatus = "pending"
	PitchStatusApproved PitchStatus = "approved"
	PitchStatusRejected PitchStatus = "rejected"
)

// MaxPitchRejections is the number of admin rejections after which a pitch
// becomes permanently immutable.
const MaxPitchRejections = 3

// Pitch is an entrepreneur's funding request submission
type Pitch struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EntrepreneurID primitive.ObjectID `json:"entrepreneur_id" bson:"entrepreneur_id"`

	// Business fields
	BusinessName         string  `json:"business_name" bson:"business_name"`
	Tagline              string  `json:"tagline,omitempty" bson:"tagline,omitempty"`
	Website              string  `json:"website,omitempty" bson:"website,omitempty"`
	Industry             string  `json:"industry,omitempty" bson:"industry,omitempty"`
	Stage                string  `json:"stage,omitempty" bson:"stage,omitempty"`
	FoundedYear          int     `json:"founded_year,omitempty" bson:"founded_year,omitempty"`
	TeamSize             int     `json:"team_size,omitempty" bson:"team_size,omitempty"`
	Country              string  `json:"country,omitempty" bson:"country,omitempty"`
	City                 string  `json:"city,omitempty" bson:"city,omitempty"`
	ProblemStatement     string  `json:"problem_statement,omitempty" bson:"problem_statement,omitempty"`
	Solution             string  `json:"solution,omitempty" bson:"solution,omitempty"`
	ProductDescription   string  `json:"product_description,omitempty" bson:"product_description,omitempty"`
	BusinessModel        string  `json:"business_model,omitempty" bson:"business_model,omitempty"`
	RevenueModel         string  `json:"revenue_model,omitempty" bson:"revenue_model,omitempty"`
	TargetMarket         string  `json:"target_market,omitempty" bson:"target_market,omitempty"`
	MarketSize           string  `json:"market_size,omitempty" bson:"market_size,omitempty"`
	CompetitiveLandscape string  `json:"competitive_landscape,omitempty" bson:"competitive_landscape,omitempty"`
	CompetitiveAdvantage string  `json:"competitive_advantage,omitempty" bson:"competitive_advantage,omitempty"`
	GoToMarketStrategy   string  `json:"go_to_market_strategy,omitempty" bson:"go_to_market_strategy,omitempty"`
	TractionSummary      string  `json:"traction_summary,omitempty" bson:"traction_summary,omitempty"`
	MonthlyRevenue       float64 `json:"monthly_revenue,omitempty" bson:"monthly_revenue,omitempty"`
	MonthlyBurnRate      float64 `json:"monthly_burn_rate,omitempty" bson:"monthly_burn_rate,omitempty"`
	PreviousFunding      string  `json:"previous_funding,omitempty" bson:"previous_funding,omitempty"`
	FundingAmount        float64 `json:"funding_amount,omitempty" bson:"funding_amount,omitempty"`
	EquityOffered        float64 `json:"equity_offered,omitempty" bson:"equity_offered,omitempty"`
	Valuation            float64 `json:"valuation,omitempty" bson:"valuation,omitempty"`
	UseOfFunds           string  `json:"use_of_funds,omitempty" bson:"use_of_funds,omitempty"`
	ExitStrategy         string  `json:"exit_strategy,omitempty" bson:"exit_strategy,omitempty"`
	FounderName          string  `json:"founder_name,omitempty" bson:"founder_name,omitempty"`
	FounderRole          string  `json:"founder_role,omitempty" bson:"founder_role,omitempty"`
	FounderEmail         string  `json:"founder_email,omitempty" bson:"founder_email,omitempty"`
	FounderLinkedIn      string  `json:"founder_linkedin,omitempty" bson:"founder_linkedin,omitempty"`
	TeamOverview         string  `json:"team_overview,omitempty" bson:"team_overview,omitempty"`
	RisksAndMitigation   string  `json:"risks_and_mitigation,omitempty" bson:"risks_and_mitigation,omitempty"`

	// Assets
	LogoURL           string   `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	PitchDeckURL      string   `json:"pitch_deck_url,omitempty" bson:"pitch_deck_url,omitempty"`
	FinancialDocURLs  []string `json:"financial_doc_urls,omitempty" bson:"financial_doc_urls,omitempty"`
	DemoVideoURLs     []string `json:"demo_video_urls,omitempty" bson:"demo_video_urls,omitempty"`
	TractionProofURLs []string `json:"traction_proof_urls,omitempty" bson:"traction_proof_urls,omitempty"`

	Status          PitchStatus `json:"status" bson:"status"`
	RejectionCount  int         `json:"rejection_count" bson:"rejection_count"`
	RejectionReason string      `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Editable reports whether the owner may still modify the pitch in place
func (p *Pitch) Editable() bool {
	return p.Status == PitchStatusDraft || p.Status == PitchStatusRejected
}

// Locked reports whether the pitch is permanently immutable
func (p *Pitch) Locked() bool {
	return p.RejectionCount > MaxPitchRejections
}

// ModerationText is the content scanned against the forbidden-keyword list
func (p *Pitch) ModerationText() string {
	return strings.ToLower(p.BusinessName + " " + p.ProblemStatement + " " + p.Solution)
}

// BeforeCreate stamps creation timestamps
func (p *Pitch) BeforeCreate() {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// BeforeUpdate stamps the update timestamp
func (p *Pitch) BeforeUpdate() {
	p.UpdatedAt = time.Now().UTC()
}

// AssetURLs returns every blob URL the pitch references
func (p *Pitch) AssetURLs() []string {
	urls := []string{}
	if p.LogoURL != "" {
		urls = append(urls, p.LogoURL)
	}
	if p.PitchDeckURL != "" {
		urls = append(urls, p.PitchDeckURL)
	}
	urls = append(urls, p.FinancialDocURLs...)
	urls = append(urls, p.DemoVideoURLs...)
	urls = append(urls, p.TractionProofURLs...)
	return urls
}

// Snapshot captures the pitch's current content as a fully-populated input.
// Used to run the required-field check against an already-merged pitch.
func (p *Pitch) Snapshot() PitchInput {
	return PitchInput{
		BusinessName:         &p.BusinessName,
		Tagline:              &p.Tagline,
		Website:              &p.Website,
		Industry:             &p.Industry,
		Stage:                &p.Stage,
		FoundedYear:          intPtrIfSet(p.FoundedYear),
		TeamSize:             intPtrIfSet(p.TeamSize),
		Country:              &p.Country,
		City:                 &p.City,
		ProblemStatement:     &p.ProblemStatement,
		Solution:             &p.Solution,
		ProductDescription:   &p.ProductDescription,
		BusinessModel:        &p.BusinessModel,
		RevenueModel:         &p.RevenueModel,
		TargetMarket:         &p.TargetMarket,
		MarketSize:           &p.MarketSize,
		CompetitiveLandscape: &p.CompetitiveLandscape,
		CompetitiveAdvantage: &p.CompetitiveAdvantage,
		GoToMarketStrategy:   &p.GoToMarketStrategy,
		TractionSummary:      &p.TractionSummary,
		MonthlyRevenue:       floatPtrIfSet(p.MonthlyRevenue),
		MonthlyBurnRate:      floatPtrIfSet(p.MonthlyBurnRate),
		PreviousFunding:      &p.PreviousFunding,
		FundingAmount:        floatPtrIfSet(p.FundingAmount),
		EquityOffered:        floatPtrIfSet(p.EquityOffered),
		Valuation:            floatPtrIfSet(p.Valuation),
		UseOfFunds:           &p.UseOfFunds,
		ExitStrategy:         &p.ExitStrategy,
		FounderName:          &p.FounderName,
		FounderRole:          &p.FounderRole,
		FounderEmail:         &p.FounderEmail,
		FounderLinkedIn:      &p.FounderLinkedIn,
		TeamOverview:         &p.TeamOverview,
		RisksAndMitigation:   &p.RisksAndMitigation,
		LogoURL:              &p.LogoURL,
		PitchDeckURL:         &p.PitchDeckURL,
		FinancialDocURLs:     p.FinancialDocURLs,
		DemoVideoURLs:        p.DemoVideoURLs,
		TractionProofURLs:    p.TractionProofURLs,
	}
}

// A stored zero means the numeric field was never filled in; a snapshot must
// report it as missing rather than as an explicit zero.
func intPtrIfSet(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func floatPtrIfSet(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

// PitchInput is a partial pitch payload. Nil fields were omitted by the
// caller and keep their prior values on merge; present fields replace them.
type PitchInput struct {
	BusinessName         *string  `json:"business_name,omitempty" bson:"business_name,omitempty"`
	Tagline              *string  `json:"tagline,omitempty" bson:"tagline,omitempty"`
	Website              *string  `json:"website,omitempty" bson:"website,omitempty"`
	Industry             *string  `json:"industry,omitempty" bson:"industry,omitempty"`
	Stage                *string  `json:"stage,omitempty" bson:"stage,omitempty"`
	FoundedYear          *int     `json:"founded_year,omitempty" bson:"founded_year,omitempty"`
	TeamSize             *int     `json:"team_size,omitempty" bson:"team_size,omitempty"`
	Country              *string  `json:"country,omitempty" bson:"country,omitempty"`
	City                 *string  `json:"city,omitempty" bson:"city,omitempty"`
	ProblemStatement     *string  `json:"problem_statement,omitempty" bson:"problem_statement,omitempty"`
	Solution             *string  `json:"solution,omitempty" bson:"solution,omitempty"`
	ProductDescription   *string  `json:"product_description,omitempty" bson:"product_description,omitempty"`
	BusinessModel        *string  `json:"business_model,omitempty" bson:"business_model,omitempty"`
	RevenueModel         *string  `json:"revenue_model,omitempty" bson:"revenue_model,omitempty"`
	TargetMarket         *string  `json:"target_market,omitempty" bson:"target_market,omitempty"`
	MarketSize           *string  `json:"market_size,omitempty" bson:"market_size,omitempty"`
	CompetitiveLandscape *string  `json:"competitive_landscape,omitempty" bson:"competitive_landscape,omitempty"`
	CompetitiveAdvantage *string  `json:"competitive_advantage,omitempty" bson:"competitive_advantage,omitempty"`
	GoToMarketStrategy   *string  `json:"go_to_market_strategy,omitempty" bson:"go_to_market_strategy,omitempty"`
	TractionSummary      *string  `json:"traction_summary,omitempty" bson:"traction_summary,omitempty"`
	MonthlyRevenue       *float64 `json:"monthly_revenue,omitempty" bson:"monthly_revenue,omitempty"`
	MonthlyBurnRate      *float64 `json:"monthly_burn_rate,omitempty" bson:"monthly_burn_rate,omitempty"`
	PreviousFunding      *string  `json:"previous_funding,omitempty" bson:"previous_funding,omitempty"`
	FundingAmount        *float64 `json:"funding_amount,omitempty" bson:"funding_amount,omitempty"`
	EquityOffered        *float64 `json:"equity_offered,omitempty" bson:"equity_offered,omitempty"`
	Valuation            *float64 `json:"valuation,omitempty" bson:"valuation,omitempty"`
	UseOfFunds           *string  `json:"use_of_funds,omitempty" bson:"use_of_funds,omitempty"`
	ExitStrategy         *string  `json:"exit_strategy,omitempty" bson:"exit_strategy,omitempty"`
	FounderName          *string  `json:"founder_name,omitempty" bson:"founder_name,omitempty"`
	FounderRole          *string  `json:"founder_role,omitempty" bson:"founder_role,omitempty"`
	FounderEmail         *string  `json:"founder_email,omitempty" bson:"founder_email,omitempty"`
	FounderLinkedIn      *string  `json:"founder_linkedin,omitempty" bson:"founder_linkedin,omitempty"`
	TeamOverview         *string  `json:"team_overview,omitempty" bson:"team_overview,omitempty"`
	RisksAndMitigation   *string  `json:"risks_and_mitigation,omitempty" bson:"risks_and_mitigation,omitempty"`

	LogoURL           *string  `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	PitchDeckURL      *string  `json:"pitch_deck_url,omitempty" bson:"pitch_deck_url,omitempty"`
	FinancialDocURLs  []string `json:"financial_doc_urls,omitempty" bson:"financial_doc_urls,omitempty"`
	DemoVideoURLs     []string `json:"demo_video_urls,omitempty" bson:"demo_video_urls,omitempty"`
	TractionProofURLs []string `json:"traction_proof_urls,omitempty" bson:"traction_proof_urls,omitempty"`
}

// present reports whether a string field was supplied with a non-blank value.
// Numeric fields only need a non-nil pointer: zero is a legitimate value for
// equity or valuation and must not count as missing.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// requiredPitchField pairs a human-readable field name with its presence check
type requiredPitchField struct {
	Label   string
	Present func(*PitchInput) bool
}

// requiredPitchFields is the fixed, ordered list of business fields a
// non-draft pitch must supply.
var requiredPitchFields = []requiredPitchField{
	{"Business Name", func(in *PitchInput) bool { return present(in.BusinessName) }},
	{"Tagline", func(in *PitchInput) bool { return present(in.Tagline) }},
	{"Website", func(in *PitchInput) bool { return present(in.Website) }},
	{"Industry", func(in *PitchInput) bool { return present(in.Industry) }},
	{"Stage", func(in *PitchInput) bool { return present(in.Stage) }},
	{"Founded Year", func(in *PitchInput) bool { return in.FoundedYear != nil }},
	{"Team Size", func(in *PitchInput) bool { return in.TeamSize != nil }},
	{"Country", func(in *PitchInput) bool { return present(in.Country) }},
	{"City", func(in *PitchInput) bool { return present(in.City) }},
	{"Problem Statement", func(in *PitchInput) bool { return present(in.ProblemStatement) }},
	{"Solution", func(in *PitchInput) bool { return present(in.Solution) }},
	{"Product Description", func(in *PitchInput) bool { return present(in.ProductDescription) }},
	{"Business Model", func(in *PitchInput) bool { return present(in.BusinessModel) }},
	{"Revenue Model", func(in *PitchInput) bool { return present(in.RevenueModel) }},
	{"Target Market", func(in *PitchInput) bool { return present(in.TargetMarket) }},
	{"Market Size", func(in *PitchInput) bool { return present(in.MarketSize) }},
	{"Competitive Landscape", func(in *PitchInput) bool { return present(in.CompetitiveLandscape) }},
	{"Competitive Advantage", func(in *PitchInput) bool { return present(in.CompetitiveAdvantage) }},
	{"Go-To-Market Strategy", func(in *PitchInput) bool { return present(in.GoToMarketStrategy) }},
	{"Traction Summary", func(in *PitchInput) bool { return present(in.TractionSummary) }},
	{"Monthly Revenue", func(in *PitchInput) bool { return in.MonthlyRevenue != nil }},
	{"Monthly Burn Rate", func(in *PitchInput) bool { return in.MonthlyBurnRate != nil }},
	{"Previous Funding", func(in *PitchInput) bool { return present(in.PreviousFunding) }},
	{"Funding Amount", func(in *PitchInput) bool { return in.FundingAmount != nil }},
	{"Equity Offered", func(in *PitchInput) bool { return in.EquityOffered != nil }},
	{"Valuation", func(in *PitchInput) bool { return in.Valuation != nil }},
	{"Use of Funds", func(in *PitchInput) bool { return present(in.UseOfFunds) }},
	{"Exit Strategy", func(in *PitchInput) bool { return present(in.ExitStrategy) }},
	{"Founder Name", func(in *PitchInput) bool { return present(in.FounderName) }},
	{"Founder Role", func(in *PitchInput) bool { return present(in.FounderRole) }},
	{"Founder Email", func(in *PitchInput) bool { return present(in.FounderEmail) }},
	{"Founder LinkedIn", func(in *PitchInput) bool { return present(in.FounderLinkedIn) }},
	{"Team Overview", func(in *PitchInput) bool { return present(in.TeamOverview) }},
	{"Risks and Mitigation", func(in *PitchInput) bool { return present(in.RisksAndMitigation) }},
}

// MissingRequiredFields returns the names of every required business field
// the input does not supply, in a fixed order, followed by the required
// assets. Pure function, no side effects.
func (in *PitchInput) MissingRequiredFields() []string {
	var missing []string
	for _, f := range requiredPitchFields {
		if !f.Present(in) {
			missing = append(missing, f.Label)
		}
	}
	if !present(in.LogoURL) {
		missing = append(missing, "Company Logo")
	}
	if !present(in.PitchDeckURL) {
		missing = append(missing, "Pitch Deck")
	}
	return missing
}

// ApplyTo merges the input onto a pitch field by field. Only fields the
// caller supplied are written; omitted fields keep their prior values.
func (in *PitchInput) ApplyTo(p *Pitch) {
	if in.BusinessName != nil {
		p.BusinessName = *in.BusinessName
	}
	if in.Tagline != nil {
		p.Tagline = *in.Tagline
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.Industry != nil {
		p.Industry = *in.Industry
	}
	if in.Stage != nil {
		p.Stage = *in.Stage
	}
	if in.FoundedYear != nil {
		p.FoundedYear = *in.FoundedYear
	}
	if in.TeamSize != nil {
		p.TeamSize = *in.TeamSize
	}
	if in.Country != nil {
		p.Country = *in.Country
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.ProblemStatement != nil {
		p.ProblemStatement = *in.ProblemStatement
	}
	if in.Solution != nil {
		p.Solution = *in.Solution
	}
	if in.ProductDescription != nil {
		p.ProductDescription = *in.ProductDescription
	}
	if in.BusinessModel != nil {
		p.BusinessModel = *in.BusinessModel
	}
	if in.RevenueModel != nil {
		p.RevenueModel = *in.RevenueModel
	}
	if in.TargetMarket != nil {
		p.TargetMarket = *in.TargetMarket
	}
	if in.MarketSize != nil {
		p.MarketSize = *in.MarketSize
	}
	if in.CompetitiveLandscape != nil {
		p.CompetitiveLandscape = *in.CompetitiveLandscape
	}
	if in.CompetitiveAdvantage != nil {
		p.CompetitiveAdvantage = *in.CompetitiveAdvantage
	}
	if in.GoToMarketStrategy != nil {
		p.GoToMarketStrategy = *in.GoToMarketStrategy
	}
	if in.TractionSummary != nil {
		p.TractionSummary = *in.TractionSummary
	}
	if in.MonthlyRevenue != nil {
		p.MonthlyRevenue = *in.MonthlyRevenue
	}
	if in.MonthlyBurnRate != nil {
		p.MonthlyBurnRate = *in.MonthlyBurnRate
	}
	if in.PreviousFunding != nil {
		p.PreviousFunding = *in.PreviousFunding
	}
	if in.FundingAmount != nil {
		p.FundingAmount = *in.FundingAmount
	}
	if in.EquityOffered != nil {
		p.EquityOffered = *in.EquityOffered
	}
	if in.Valuation != nil {
		p.Valuation = *in.Valuation
	}
	if in.UseOfFunds != nil {
		p.UseOfFunds = *in.UseOfFunds
	}
	if in.ExitStrategy != nil {
		p.ExitStrategy = *in.ExitStrategy
	}
	if in.FounderName != nil {
		p.FounderName = *in.FounderName
	}
	if in.FounderRole != nil {
		p.FounderRole = *in.FounderRole
	}
	if in.FounderEmail != nil {
		p.FounderEmail = *in.FounderEmail
	}
	if in.FounderLinkedIn != nil {
		p.FounderLinkedIn = *in.FounderLinkedIn
	}
	if in.TeamOverview != nil {
		p.TeamOverview = *in.TeamOverview
	}
	if in.RisksAndMitigation != nil {
		p.RisksAndMitigation = *in.RisksAndMitigation
	}
	if in.LogoURL != nil {
		p.LogoURL = *in.LogoURL
	}
	if in.PitchDeckURL != nil {
		p.PitchDeckURL = *in.PitchDeckURL
	}
	if in.FinancialDocURLs != nil {
		p.FinancialDocURLs = in.FinancialDocURLs
	}
	if in.DemoVideoURLs != nil {
		p.DemoVideoURLs = in.DemoVideoURLs
	}
	if in.TractionProofURLs != nil {
		p.TractionProofURLs = in.TractionProofURLs
	}
}
