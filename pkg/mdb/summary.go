package mdb

// Summary is the JSON view of a metaDb served by the API and printed by the
// CLI.
type Summary struct {
	Name        string              `json:"name"`
	ExpVars     []string            `json:"exp_vars"`
	DataType    string              `json:"data_type,omitempty"`
	Experiments []ExperimentSummary `json:"experiments"`
	Tables      []string            `json:"tables,omitempty"`
	Revoked     []string            `json:"revoked,omitempty"`
	GeoMapping  map[string]string   `json:"geo_mapping,omitempty"`
}

type ExperimentSummary struct {
	ID       string `json:"exp_id"`
	Stanzas  int    `json:"stanzas"`
	Normal   int    `json:"normal"`
	DataType string `json:"data_type,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Summarize fails only when the composite stanza is missing or repeated.
func Summarize(f *File) (Summary, error) {
	name, err := f.Name()
	if err != nil {
		return Summary{}, err
	}
	expVars, err := f.ExpVars()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Name:       name,
		ExpVars:    expVars,
		Tables:     f.Tables(),
		Revoked:    f.Revoked(),
		GeoMapping: f.GeoMapping(),
	}
	if dt, ok := f.DataType(); ok {
		sum.DataType = dt.Name
	}
	for _, exp := range f.Experiments().Values() {
		es := ExperimentSummary{
			ID:      exp.ID,
			Stanzas: len(exp.Stanzas),
			Normal:  len(exp.NormalStanzas()),
		}
		if dt, ok := exp.DataType(); ok {
			es.DataType = dt.Name
		}
		es.Title, _ = exp.Title()
		sum.Experiments = append(sum.Experiments, es)
	}
	return sum, nil
}
