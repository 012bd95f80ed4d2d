package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format renders the sets as a JSON array.
func (jf *JSONFormatter) Format(sets []*ComparisonSet) (string, error) {
	if sets == nil {
		sets = []*ComparisonSet{}
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(sets, "", "  ")
	} else {
		data, err = json.Marshal(sets)
	}
	if err != nil {
		return "", err
	}

	return string(data) + "\n", nil
}
