// Package reconcile merges extraction candidates into the existing business
// records, normalizing fields, logging advisory discrepancies, and expanding
// rows for practices with more than one identified staff member.
package reconcile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/praxisdata/clinic-enrich/internal/model"
	"github.com/praxisdata/clinic-enrich/internal/normalize"
)

// Notes texts written by reconciliation.
const (
	NoteNoStaff = "No psychologists found"
	NoteNoData  = "No extraction data found"
)

// Result is the reconciliation outcome: the updated original rows followed by
// any expansion rows, plus the advisory discrepancy log.
type Result struct {
	Records       []model.BusinessRecord
	Discrepancies []model.Discrepancy
	Updated       int
	Expanded      int
}

// Reconcile merges candidates (keyed by practice name) into records. Selected
// marks the rows that went through extraction, so a selected row with no
// candidate is annotated rather than silently skipped. Today is the
// YYYY-MM-DD stamp written to every row a candidate touched. The input slice
// is not mutated; expansion rows are appended after all originals.
func Reconcile(records []model.BusinessRecord, candidates map[string]model.CandidateRecord, selected map[int]bool, today string) Result {
	var res Result
	out := make([]model.BusinessRecord, len(records))
	copy(out, records)

	// Pre-pass: canonicalize phone numbers and addresses already in the
	// table, independent of extraction outcomes.
	for i := range out {
		if phone, ok := normalize.Phone(out[i].Phone); ok {
			out[i].Phone = phone
		}
		if addr, ok := normalize.Address(out[i].Address); ok {
			out[i].Address = addr
		}
	}

	var expansions []model.BusinessRecord
	for i := range out {
		rec := &out[i]

		cand, found := candidates[rec.Practice]
		if !found {
			if selected[rec.Row] {
				rec.Notes = NoteNoData
			}
			continue
		}

		if cand.Err != "" {
			rec.Notes = "Extraction error: " + cand.Err
			continue
		}

		extra := mergeCandidate(rec, cand, today, &res.Discrepancies)
		res.Updated++
		expansions = append(expansions, extra...)
	}

	res.Expanded = len(expansions)
	res.Records = append(out, expansions...)

	zap.L().Info("reconcile: done",
		zap.Int("records", len(records)),
		zap.Int("updated", res.Updated),
		zap.Int("expanded", res.Expanded),
		zap.Int("discrepancies", len(res.Discrepancies)),
	)
	return res
}

// mergeCandidate applies one candidate to its row and returns expansion rows
// for staff beyond the first. The row is fully updated before any clone is
// taken, so expansion rows share the normalized email, doctor page URL,
// prices, and date stamp.
func mergeCandidate(rec *model.BusinessRecord, cand model.CandidateRecord, today string, discrepancies *[]model.Discrepancy) []model.BusinessRecord {
	if cand.Email != "" {
		if email, ok := normalize.Email(cand.Email); ok {
			flag(discrepancies, rec.Row, model.ColEmail, rec.Email, email)
			rec.Email = email
		}
	}

	if cand.DoctorPageURL != "" {
		if u, ok := normalize.URL(cand.DoctorPageURL); ok {
			flag(discrepancies, rec.Row, model.ColDoctors, rec.DoctorsURL, u)
			rec.DoctorsURL = u
		}
	}

	if cand.Pricing.InitialConsult != "" {
		if price, ok := normalize.Price(cand.Pricing.InitialConsult); ok {
			flag(discrepancies, rec.Row, model.ColInitialConsult, rec.InitialConsult, price)
			rec.InitialConsult = price
		}
	}
	if cand.Pricing.FollowupConsult != "" {
		if price, ok := normalize.Price(cand.Pricing.FollowupConsult); ok {
			flag(discrepancies, rec.Row, model.ColFollowupConsult, rec.FollowupConsult, price)
			rec.FollowupConsult = price
		}
	}

	rec.Date = today

	if len(cand.Staff) == 0 {
		rec.Notes = NoteNoStaff
		return nil
	}

	first := cand.Staff[0]
	if name := normalize.StaffName(first.Name); name != "" {
		flag(discrepancies, rec.Row, model.ColName, rec.StaffName, name)
		rec.StaffName = name
	}
	if cat, ok := normalize.Category(first.Type); ok {
		flag(discrepancies, rec.Row, model.ColType, rec.StaffType, cat)
		rec.StaffType = cat
	}

	var expansions []model.BusinessRecord
	for _, staff := range cand.Staff[1:] {
		clone := *rec
		clone.Row = -1 // appended, no source row
		if name := normalize.StaffName(staff.Name); name != "" {
			clone.StaffName = name
		}
		if cat, ok := normalize.Category(staff.Type); ok {
			clone.StaffType = cat
		} else {
			clone.StaffType = ""
		}
		expansions = append(expansions, clone)
	}
	return expansions
}

// flag appends a discrepancy when the row already held a different non-empty
// value. Advisory only: callers overwrite regardless.
func flag(discrepancies *[]model.Discrepancy, row int, field, oldValue, newValue string) {
	if oldValue == "" || newValue == "" {
		return
	}
	if strings.TrimSpace(oldValue) == strings.TrimSpace(newValue) {
		return
	}
	*discrepancies = append(*discrepancies, model.Discrepancy{
		Row:      row,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		Message:  fmt.Sprintf("Discrepancy in %s: '%s' vs '%s'", field, oldValue, newValue),
	})
}
