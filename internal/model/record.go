// Package model holds the data types shared across the enrichment pipeline.
package model

// Spreadsheet column names. The output workbook always carries at least
// this set, in this order.
const (
	ColPractice        = "Practice"
	ColAddress         = "Address"
	ColWebsite         = "Website"
	ColPhone           = "Phone"
	ColName            = "Name"
	ColEmail           = "Email"
	ColDoctors         = "Doctors"
	ColType            = "Type"
	ColInitialConsult  = "Initial Consult"
	ColFollowupConsult = "Follow-up Consult"
	ColDate            = "Date"
	ColNotes           = "Notes"
)

// RequiredColumns returns the guaranteed minimum column set in output order.
func RequiredColumns() []string {
	return []string{
		ColPractice,
		ColAddress,
		ColWebsite,
		ColPhone,
		ColName,
		ColEmail,
		ColDoctors,
		ColType,
		ColInitialConsult,
		ColFollowupConsult,
		ColDate,
		ColNotes,
	}
}

// BusinessRecord is one row of the practice table. A practice with N
// identified staff is represented as N rows sharing the non-staff fields,
// each carrying one staff name/type pair.
type BusinessRecord struct {
	Row             int    `json:"row"` // zero-based data row index in the input sheet
	Practice        string `json:"practice"`
	Address         string `json:"address"`
	Website         string `json:"website"`
	Phone           string `json:"phone"`
	StaffName       string `json:"staff_name"`
	Email           string `json:"email"`
	DoctorsURL      string `json:"doctors_url"`
	StaffType       string `json:"staff_type"` // "C" clinical, "G" general
	InitialConsult  string `json:"initial_consult"`
	FollowupConsult string `json:"followup_consult"`
	Date            string `json:"date"` // YYYY-MM-DD of the last enrichment pass
	Notes           string `json:"notes"`
}

// StaffMember is one (name, type) pair from the extraction oracle.
type StaffMember struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PricingInfo holds consultation prices as extracted, before normalization.
type PricingInfo struct {
	InitialConsult  string `json:"initial_consult"`
	FollowupConsult string `json:"followup_consult"`
}

// CandidateRecord is the oracle's structured guess for one practice. It is
// consumed immediately by normalization and reconciliation. A non-empty Err
// means extraction failed for this practice; all other fields are then empty.
type CandidateRecord struct {
	Practice      string        `json:"practice_name"`
	Email         string        `json:"email"`
	DoctorPageURL string        `json:"doctor_page_url"`
	Staff         []StaffMember `json:"psychologists"`
	Pricing       PricingInfo   `json:"pricing_info"`
	Err           string        `json:"error,omitempty"`
}

// Discrepancy records a conflict between a previously stored field value and
// a freshly normalized one. Discrepancies are advisory: the new value still
// wins, and the log is surfaced for human review.
type Discrepancy struct {
	Row      int    `json:"row"`
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Message  string `json:"message"`
}
