package models

type RowResult struct {
	Index  int                   `json:"index"`
	Record *ClassificationRecord `json:"record,omitempty"`
	Err    error                 `json:"-"`
	Error  string                `json:"error,omitempty"`
}

func (r RowResult) Failed() bool {
	return r.Err != nil
}

func (r RowResult) Label() Label {
	if r.Err != nil || r.Record == nil {
		return LabelFailed
	}
	return r.Record.Label
}

type LabelDistribution map[Label]int

func NewLabelDistribution() LabelDistribution {
	return LabelDistribution{
		LabelPositive: 0,
		LabelNeutral:  0,
		LabelNegative: 0,
		LabelFailed:   0,
	}
}

func (d LabelDistribution) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

type BatchResult struct {
	Columns      []string          `json:"columns"`
	Rows         [][]string        `json:"-"`
	TextColumn   string            `json:"text_column"`
	Results      []RowResult       `json:"results"`
	Distribution LabelDistribution `json:"distribution"`
	FailedRows   []int             `json:"failed_rows"`
}

func (b *BatchResult) Len() int {
	return len(b.Results)
}
