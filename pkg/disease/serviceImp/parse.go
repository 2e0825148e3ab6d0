package serviceImp

import (
	"strconv"
	"strings"
)

const defaultConfidence = 85.0

var sectionLabels = []string{"DISEASE:", "CONFIDENCE:", "SYMPTOMS:", "TREATMENT:", "PREVENTION:"}

type diagnosis struct {
	Disease    string
	Confidence float64
	Treatment  string
	Prevention string
}

// section returns the text after label up to the next known label.
func section(reply, label string) (string, bool) {
	i := strings.Index(reply, label)
	if i < 0 {
		return "", false
	}
	rest := reply[i+len(label):]
	end := len(rest)
	for _, l := range sectionLabels {
		if j := strings.Index(rest, l); j >= 0 && j < end {
			end = j
		}
	}
	return strings.Trim(strings.TrimSpace(rest[:end]), "*_ \n"), true
}

func parseDiagnosis(reply string) diagnosis {
	d := diagnosis{Disease: "Unknown", Confidence: defaultConfidence}
	if s, ok := section(reply, "DISEASE:"); ok && s != "" {
		d.Disease = strings.TrimSpace(strings.SplitN(s, "\n", 2)[0])
	}
	if s, ok := section(reply, "CONFIDENCE:"); ok {
		s = strings.TrimSpace(strings.SplitN(s, "%", 2)[0])
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v <= 100 {
			d.Confidence = v
		}
	}
	d.Treatment, _ = section(reply, "TREATMENT:")
	d.Prevention, _ = section(reply, "PREVENTION:")
	return d
}
