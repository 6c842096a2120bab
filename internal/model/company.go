package model

import "time"

// Company is provisioned externally; the credit core only reads it.
type Company struct {
	ID        string     `db:"id"         json:"id"`    // canonical, uppercase (e.g. CNPJ_00001)
	TaxID     *string    `db:"tax_id"     json:"taxId"` // CNPJ, digits or masked
	Sector    *string    `db:"sector"     json:"sector,omitempty"`
	FoundedAt *time.Time `db:"founded_at" json:"foundedAt,omitempty"`
}

// TaxIDValue returns the tax id or "" when unknown.
func (c Company) TaxIDValue() string {
	if c.TaxID == nil {
		return ""
	}
	return *c.TaxID
}
