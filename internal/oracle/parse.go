package oracle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// wireCandidate mirrors the JSON shape the model is asked for. Prices come
// back as strings or bare numbers depending on the model's mood, so they are
// decoded loosely and coerced.
type wireCandidate struct {
	Practice      string `json:"practice_name"`
	Email         string `json:"email"`
	DoctorPageURL string `json:"doctor_page_url"`
	Staff         []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"psychologists"`
	Pricing struct {
		InitialConsult  any `json:"initial_consult"`
		FollowupConsult any `json:"followup_consult"`
	} `json:"pricing_info"`
	Err string `json:"error"`
}

// ParseCandidate decodes a model response into a candidate record. Code
// fences are stripped first. Responses that are not valid JSON, or that carry
// the model's own error marker, yield a candidate with Err set; absent fields
// are simply empty.
func ParseCandidate(raw string) model.CandidateRecord {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return model.CandidateRecord{Err: "empty response"}
	}

	var wire wireCandidate
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return model.CandidateRecord{Err: "response was not valid JSON"}
	}
	if wire.Err != "" {
		return model.CandidateRecord{Err: wire.Err}
	}

	cand := model.CandidateRecord{
		Practice:      strings.TrimSpace(wire.Practice),
		Email:         strings.TrimSpace(wire.Email),
		DoctorPageURL: strings.TrimSpace(wire.DoctorPageURL),
		Pricing: model.PricingInfo{
			InitialConsult:  toString(wire.Pricing.InitialConsult),
			FollowupConsult: toString(wire.Pricing.FollowupConsult),
		},
	}
	for _, s := range wire.Staff {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		cand.Staff = append(cand.Staff, model.StaffMember{
			Name: name,
			Type: strings.TrimSpace(s.Type),
		})
	}
	return cand
}

// stripCodeFence removes a surrounding markdown code fence, if any, and trims
// whitespace.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
