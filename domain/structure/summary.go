package structure

import (
	"encoding/json"

	"github.com/montanaflynn/stats"
)

// Summary describes the shape of one transcoded structure: how many
// groups it holds and how the field rows distribute across them.
type Summary struct {
	GroupCount         int     `json:"group_count"`
	FieldCount         int     `json:"field_count"`
	EmptyGroupCount    int     `json:"empty_group_count"`
	FieldsPerGroupMean float64 `json:"fields_per_group_mean"`
	FieldsPerGroupMin  float64 `json:"fields_per_group_min"`
	FieldsPerGroupMax  float64 `json:"fields_per_group_max"`
	MedianFieldCount   float64 `json:"median_field_count"`
}

// Summarize computes descriptive statistics over a structure. An empty
// structure summarizes to all zeros.
func Summarize(s Structure) (Summary, error) {
	counts := make([]float64, 0, len(s))
	for _, g := range s {
		counts = append(counts, float64(g.Len()))
	}
	return summarizeCounts(counts)
}

// SummarizeDocuments computes the same statistics from persisted group
// documents. A document's field count is its key count minus the metadata
// block, when present.
func SummarizeDocuments(docs []json.RawMessage) (Summary, error) {
	counts := make([]float64, 0, len(docs))
	for _, raw := range docs {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Summary{}, err
		}
		n := len(doc)
		if _, ok := doc["metadata"]; ok {
			n--
		}
		counts = append(counts, float64(n))
	}
	return summarizeCounts(counts)
}

func summarizeCounts(counts []float64) (Summary, error) {
	summary := Summary{GroupCount: len(counts)}
	if len(counts) == 0 {
		return summary, nil
	}

	for _, n := range counts {
		summary.FieldCount += int(n)
		if n == 0 {
			summary.EmptyGroupCount++
		}
	}

	mean, err := stats.Mean(counts)
	if err != nil {
		return summary, err
	}
	min, err := stats.Min(counts)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(counts)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(counts)
	if err != nil {
		return summary, err
	}

	summary.FieldsPerGroupMean = mean
	summary.FieldsPerGroupMin = min
	summary.FieldsPerGroupMax = max
	summary.MedianFieldCount = median
	return summary, nil
}
