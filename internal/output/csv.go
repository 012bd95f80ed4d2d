package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVFormatter writes one row per method per case.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(reports []*Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"CaseID", "Law", "Method", "EligYear", "AIME", "PiaElig", "PiaEnt", "PiaBen", "MfbBen", "Governs"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r == nil || r.Result == nil {
			return nil, fmt.Errorf("report has no result")
		}
		res := r.Result
		for _, m := range res.Methods {
			row := []string{
				res.CaseID,
				res.Law,
				m.Kind.String(),
				strconv.Itoa(m.EligYear),
				m.Aime.StringFixed(2),
				m.PiaElig.StringFixed(2),
				m.PiaEnt.StringFixed(2),
				m.PiaBen.StringFixed(2),
				m.MfbBen.StringFixed(2),
				strconv.FormatBool(m == res.High),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
