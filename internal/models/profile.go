package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileStatus is the moderation state of a profile
type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
)

// DocumentType discriminates the identity document variant
type DocumentType string

const (
	DocumentTypeCnic     DocumentType = "cnic"
	DocumentTypePassport DocumentType = "passport"
)

// IdentityDocument is a tagged identity-document variant. Exactly one of the
// cnic and passport field groups is populated at any time.
type IdentityDocument struct {
	DocumentType    DocumentType `json:"document_type,omitempty" bson:"document_type,omitempty"`
	CnicNumber      string       `json:"cnic_number,omitempty" bson:"cnic_number,omitempty"`
	CnicFrontURL    string       `json:"cnic_front_url,omitempty" bson:"cnic_front_url,omitempty"`
	CnicBackURL     string       `json:"cnic_back_url,omitempty" bson:"cnic_back_url,omitempty"`
	PassportNumber  string       `json:"passport_number,omitempty" bson:"passport_number,omitempty"`
	PassportCountry string       `json:"passport_country,omitempty" bson:"passport_country,omitempty"`
	PassportExpiry  *time.Time   `json:"passport_expiry,omitempty" bson:"passport_expiry,omitempty"`
	PassportScanURL string       `json:"passport_scan_url,omitempty" bson:"passport_scan_url,omitempty"`
}

// ScanURLs returns every asset URL attached to the document
func (d *IdentityDocument) ScanURLs() []string {
	urls := make([]string, 0, 3)
	for _, u := range []string{d.CnicFrontURL, d.CnicBackURL, d.PassportScanURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// SupersededURLs returns the URLs of the current document's asset slots that
// applying the proposed document would leave orphaned. A variant switch
// supersedes every scan of the current variant, since Apply clears those
// slots; within the same variant a slot is superseded when the proposal
// carries a different non-empty value for it.
func (d *IdentityDocument) SupersededURLs(proposed *IdentityDocument) []string {
	if d.DocumentType != proposed.DocumentType {
		return d.ScanURLs()
	}
	stale := make([]string, 0, 3)
	slots := []struct{ current, next string }{
		{d.CnicFrontURL, proposed.CnicFrontURL},
		{d.CnicBackURL, proposed.CnicBackURL},
		{d.PassportScanURL, proposed.PassportScanURL},
	}
	for _, s := range slots {
		if s.current != "" && s.next != "" && s.current != s.next {
			stale = append(stale, s.current)
		}
	}
	return stale
}

// Apply overwrites the document with the proposed variant and clears the
// fields of the other variant, preserving mutual exclusivity.
func (d *IdentityDocument) Apply(proposed *IdentityDocument) {
	d.DocumentType = proposed.DocumentType
	switch proposed.DocumentType {
	case DocumentTypeCnic:
		d.CnicNumber = proposed.CnicNumber
		d.CnicFrontURL = proposed.CnicFrontURL
		d.CnicBackURL = proposed.CnicBackURL
		d.PassportNumber = ""
		d.PassportCountry = ""
		d.PassportExpiry = nil
		d.PassportScanURL = ""
	case DocumentTypePassport:
		d.PassportNumber = proposed.PassportNumber
		d.PassportCountry = proposed.PassportCountry
		d.PassportExpiry = proposed.PassportExpiry
		d.PassportScanURL = proposed.PassportScanURL
		d.CnicNumber = ""
		d.CnicFrontURL = ""
		d.CnicBackURL = ""
	}
}

// Validate checks the variant tag and that only the tagged field group is set
func (d *IdentityDocument) Validate() error {
	switch d.DocumentType {
	case DocumentTypeCnic:
		if d.CnicNumber == "" || d.CnicFrontURL == "" || d.CnicBackURL == "" {
			return &MissingFieldsError{Fields: []string{"CNIC Number", "CNIC Front", "CNIC Back"}}
		}
		if d.PassportNumber != "" || d.PassportScanURL != "" {
			return ErrInvalidDocumentType
		}
	case DocumentTypePassport:
		if d.PassportNumber == "" || d.PassportCountry == "" || d.PassportScanURL == "" || d.PassportExpiry == nil {
			return &MissingFieldsError{Fields: []string{"Passport Number", "Passport Country", "Passport Expiry", "Passport Scan"}}
		}
		if d.CnicNumber != "" || d.CnicFrontURL != "" || d.CnicBackURL != "" {
			return ErrInvalidDocumentType
		}
	default:
		return ErrInvalidDocumentType
	}
	return nil
}

// Profile is an entrepreneur or investor account record
type Profile struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserType     Role               `json:"user_type" bson:"user_type"`
	FullName     string             `json:"full_name" bson:"full_name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Country      string             `json:"country,omitempty" bson:"country,omitempty"`
	City         string             `json:"city,omitempty" bson:"city,omitempty"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`

	// Investor-only fields
	FirmName        string `json:"firm_name,omitempty" bson:"firm_name,omitempty"`
	InvestmentFocus string `json:"investment_focus,omitempty" bson:"investment_focus,omitempty"`

	Status          ProfileStatus `json:"status" bson:"status"`
	IsVerified      bool          `json:"is_verified" bson:"is_verified"`
	IsEmailVerified bool          `json:"is_email_verified" bson:"is_email_verified"`
	RejectionReason string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	AdminComments   string        `json:"admin_comments,omitempty" bson:"admin_comments,omitempty"`

	Document IdentityDocument `json:"document,omitempty" bson:"document,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// BeforeCreate stamps creation timestamps
func (p *Profile) BeforeCreate() {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// BeforeUpdate stamps the update timestamp
func (p *Profile) BeforeUpdate() {
	p.UpdatedAt = time.Now().UTC()
}
