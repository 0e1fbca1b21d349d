package insight

// Patch is a partial update: nil fields are left untouched, everything else
// is overwritten. It doubles as the create payload, where Intensity must be
// present. Identity and the bookkeeping timestamps are never client-settable.
type Patch struct {
	Insight *string `json:"insight"`
	URL     *string `json:"url"`
	Title   *string `json:"title"`
	Source  *string `json:"source"`

	Sector  *string `json:"sector"`
	Topic   *string `json:"topic"`
	Region  *string `json:"region"`
	Country *string `json:"country"`
	Pestle  *string `json:"pestle"`

	StartYear *string `json:"start_year"`
	EndYear   *string `json:"end_year"`
	Added     *string `json:"added"`
	Published *string `json:"published"`

	Impact *string `json:"impact"`

	Intensity  *Score `json:"intensity"`
	Relevance  *Score `json:"relevance"`
	Likelihood *Score `json:"likelihood"`
}

// IsEmpty reports whether the patch sets no fields at all.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the set fields as a name-to-value map, strings for the
// textual attributes and float64 for the scores.
func (p Patch) Fields() map[string]any {
	out := map[string]any{}
	put := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	put("insight", p.Insight)
	put("url", p.URL)
	put("title", p.Title)
	put("source", p.Source)
	put("sector", p.Sector)
	put("topic", p.Topic)
	put("region", p.Region)
	put("country", p.Country)
	put("pestle", p.Pestle)
	put("start_year", p.StartYear)
	put("end_year", p.EndYear)
	put("added", p.Added)
	put("published", p.Published)
	put("impact", p.Impact)
	if p.Intensity != nil {
		out["intensity"] = float64(*p.Intensity)
	}
	if p.Relevance != nil {
		out["relevance"] = float64(*p.Relevance)
	}
	if p.Likelihood != nil {
		out["likelihood"] = float64(*p.Likelihood)
	}
	return out
}

// Apply overwrites the set fields on in.
func (p Patch) Apply(in *Insight) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&in.Insight, p.Insight)
	set(&in.URL, p.URL)
	set(&in.Title, p.Title)
	set(&in.Source, p.Source)
	set(&in.Sector, p.Sector)
	set(&in.Topic, p.Topic)
	set(&in.Region, p.Region)
	set(&in.Country, p.Country)
	set(&in.Pestle, p.Pestle)
	set(&in.StartYear, p.StartYear)
	set(&in.EndYear, p.EndYear)
	set(&in.Added, p.Added)
	set(&in.Published, p.Published)
	set(&in.Impact, p.Impact)
	if p.Intensity != nil {
		in.Intensity = *p.Intensity
	}
	if p.Relevance != nil {
		in.Relevance = *p.Relevance
	}
	if p.Likelihood != nil {
		in.Likelihood = *p.Likelihood
	}
}
