package output

import (
	"encoding/json"
	"fmt"

	"github.com/rgehrsitz/anypia/internal/calculation"
	"github.com/shopspring/decimal"
)

// JSONFormatter renders reports as an indented JSON array.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonMethod struct {
	Method   string          `json:"method"`
	EligYear int             `json:"elig_year"`
	Aime     decimal.Decimal `json:"aime"`
	PiaElig  decimal.Decimal `json:"pia_elig"`
	PiaEnt   decimal.Decimal `json:"pia_ent"`
	PiaBen   decimal.Decimal `json:"pia_ben"`
	MfbBen   decimal.Decimal `json:"mfb_ben"`
	Windfall string          `json:"windfall,omitempty"`
	Governs  bool            `json:"governs"`
}

type jsonMember struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Original    decimal.Decimal `json:"original"`
	Benefit     decimal.Decimal `json:"benefit"`
	ReindPia    decimal.Decimal `json:"reindexed_pia"`
	ReindGovern bool            `json:"reindexed_governs,omitempty"`
}

type jsonReport struct {
	CaseID      string          `json:"case_id"`
	Law         string          `json:"law"`
	Benefit     string          `json:"benefit"`
	EligYear    int             `json:"elig_year"`
	Insured     bool            `json:"insured"`
	QcTotal     int             `json:"qc_total"`
	CompYears   int             `json:"computation_years"`
	Governing   string          `json:"governing_method"`
	Pia         decimal.Decimal `json:"pia"`
	Mfb         decimal.Decimal `json:"mfb"`
	Methods     []jsonMethod    `json:"methods"`
	Family      []jsonMember    `json:"family,omitempty"`
	Assumptions []string        `json:"assumptions,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

func (j JSONFormatter) Format(reports []*Report) ([]byte, error) {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		if r == nil || r.Result == nil || r.Case == nil || r.Case.Worker == nil {
			return nil, fmt.Errorf("report has no result")
		}
		res, w := r.Result, r.Case.Worker
		jr := jsonReport{
			CaseID:      res.CaseID,
			Law:         res.Law,
			Benefit:     w.Benefit.String(),
			EligYear:    res.PiaData.EligYear,
			Insured:     res.Insured(w.Benefit),
			QcTotal:     res.PiaData.Insured.QcTotal,
			CompYears:   res.PiaData.CompPeriodNew.N,
			Governing:   res.High.Kind.String(),
			Pia:         res.HighPia,
			Mfb:         res.HighMfb,
			Assumptions: r.Assumptions,
			Warnings:    res.Warnings,
		}
		for _, m := range res.Methods {
			jm := jsonMethod{
				Method:   m.Kind.String(),
				EligYear: m.EligYear,
				Aime:     m.Aime,
				PiaElig:  m.PiaElig,
				PiaEnt:   m.PiaEnt,
				PiaBen:   m.PiaBen,
				MfbBen:   m.MfbBen,
				Governs:  m == res.High,
			}
			if m.Windfall != calculation.WindfallNone {
				jm.Windfall = m.Windfall.String()
			}
			jr.Methods = append(jr.Methods, jm)
		}
		for _, s := range res.Family {
			jr.Family = append(jr.Family, jsonMember{
				Name:        s.Name,
				Category:    s.Category.String(),
				Original:    s.Original,
				Benefit:     s.Benefit,
				ReindPia:    s.ReindPia,
				ReindGovern: s.ReindGoverns,
			})
		}
		out = append(out, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
