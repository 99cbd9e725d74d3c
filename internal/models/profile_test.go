package models

import (
	"errors"
	"testing"
	"time"
)

func cnicDocument() IdentityDocument {
	return IdentityDocument{
		DocumentType: DocumentTypeCnic,
		CnicNumber:   "42101-1234567-1",
		CnicFrontURL: "https://res.cloudinary.com/x/image/upload/v1/front.jpg",
		CnicBackURL:  "https://res.cloudinary.com/x/image/upload/v1/back.jpg",
	}
}

func passportDocument() IdentityDocument {
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return IdentityDocument{
		DocumentType:    DocumentTypePassport,
		PassportNumber:  "AB1234567",
		PassportCountry: "Pakistan",
		PassportExpiry:  &expiry,
		PassportScanURL: "https://res.cloudinary.com/x/image/upload/v1/passport.jpg",
	}
}

func TestIdentityDocumentValidate(t *testing.T) {
	cnic := cnicDocument()
	if err := cnic.Validate(); err != nil {
		t.Errorf("complete cnic document must validate, got %v", err)
	}

	passport := passportDocument()
	if err := passport.Validate(); err != nil {
		t.Errorf("complete passport document must validate, got %v", err)
	}

	incomplete := cnicDocument()
	incomplete.CnicBackURL = ""
	var missing *MissingFieldsError
	if err := incomplete.Validate(); !errors.As(err, &missing) {
		t.Errorf("incomplete cnic document must report missing fields, got %v", err)
	}

	mixed := cnicDocument()
	mixed.PassportNumber = "AB1234567"
	if err := mixed.Validate(); !errors.Is(err, ErrInvalidDocumentType) {
		t.Errorf("both variants populated must be rejected, got %v", err)
	}

	untagged := IdentityDocument{}
	if err := untagged.Validate(); !errors.Is(err, ErrInvalidDocumentType) {
		t.Errorf("missing document type must be rejected, got %v", err)
	}
}

func TestIdentityDocumentApplyClearsOtherVariant(t *testing.T) {
	current := cnicDocument()
	proposed := passportDocument()

	current.Apply(&proposed)

	if current.DocumentType != DocumentTypePassport {
		t.Fatalf("expected passport type after apply, got %s", current.DocumentType)
	}
	if current.CnicNumber != "" || current.CnicFrontURL != "" || current.CnicBackURL != "" {
		t.Errorf("cnic fields must be cleared after switching to passport: %+v", current)
	}
	if err := current.Validate(); err != nil {
		t.Errorf("document must stay valid after apply, got %v", err)
	}
}

func TestIdentityDocumentSupersededURLs(t *testing.T) {
	current := cnicDocument()

	proposed := cnicDocument()
	proposed.CnicFrontURL = "https://res.cloudinary.com/x/image/upload/v2/front.jpg"

	stale := current.SupersededURLs(&proposed)
	if len(stale) != 1 || stale[0] != cnicDocument().CnicFrontURL {
		t.Fatalf("only the replaced slot is superseded, got %v", stale)
	}

	// A same-variant proposal that omits a slot leaves it alone
	proposed.CnicFrontURL = cnicDocument().CnicFrontURL
	proposed.CnicBackURL = ""
	if stale := current.SupersededURLs(&proposed); len(stale) != 0 {
		t.Errorf("unchanged and omitted slots are not superseded, got %v", stale)
	}
}

func TestIdentityDocumentVariantSwitchSupersedesAllScans(t *testing.T) {
	current := cnicDocument()
	passport := passportDocument()

	stale := current.SupersededURLs(&passport)
	if len(stale) != 2 {
		t.Fatalf("switching to passport must supersede both cnic scans, got %v", stale)
	}
	if stale[0] != current.CnicFrontURL || stale[1] != current.CnicBackURL {
		t.Errorf("expected the cnic front and back scans, got %v", stale)
	}

	// And the reverse direction supersedes the passport scan
	back := passportDocument()
	cnic := cnicDocument()
	if stale := back.SupersededURLs(&cnic); len(stale) != 1 || stale[0] != back.PassportScanURL {
		t.Errorf("switching to cnic must supersede the passport scan, got %v", stale)
	}
}

func TestIdentityDocumentScanURLs(t *testing.T) {
	cnic := cnicDocument()
	if urls := cnic.ScanURLs(); len(urls) != 2 {
		t.Errorf("cnic document has 2 scans, got %v", urls)
	}

	passport := passportDocument()
	if urls := passport.ScanURLs(); len(urls) != 1 {
		t.Errorf("passport document has 1 scan, got %v", urls)
	}

	var empty IdentityDocument
	if urls := empty.ScanURLs(); len(urls) != 0 {
		t.Errorf("empty document has no scans, got %v", urls)
	}
}
