package insight

// Filter is an exact-match conjunction over a known subset of Insight
// fields. Nil fields are unconstrained. The three score fields compare
// numerically; everything else compares as a string.
type Filter struct {
	Insight   *string
	URL       *string
	Title     *string
	Source    *string
	Sector    *string
	Topic     *string
	Region    *string
	Country   *string
	Pestle    *string
	StartYear *string
	EndYear   *string
	Added     *string
	Published *string
	Impact    *string

	Intensity  *float64
	Relevance  *float64
	Likelihood *float64
}

// SetString constrains a textual field by name. Unknown or numeric field
// names are ignored and reported as false.
func (f *Filter) SetString(name, value string) bool {
	v := value
	switch name {
	case "insight":
		f.Insight = &v
	case "url":
		f.URL = &v
	case "title":
		f.Title = &v
	case "source":
		f.Source = &v
	case "sector":
		f.Sector = &v
	case "topic":
		f.Topic = &v
	case "region":
		f.Region = &v
	case "country":
		f.Country = &v
	case "pestle":
		f.Pestle = &v
	case "start_year":
		f.StartYear = &v
	case "end_year":
		f.EndYear = &v
	case "added":
		f.Added = &v
	case "published":
		f.Published = &v
	case "impact":
		f.Impact = &v
	default:
		return false
	}
	return true
}

// SetNumber constrains a score field by name.
func (f *Filter) SetNumber(name string, value float64) bool {
	switch name {
	case "intensity":
		f.Intensity = &value
	case "relevance":
		f.Relevance = &value
	case "likelihood":
		f.Likelihood = &value
	default:
		return false
	}
	return true
}

// Strings returns the constrained textual fields as a name-to-value map.
func (f Filter) Strings() map[string]string {
	out := map[string]string{}
	put := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	put("insight", f.Insight)
	put("url", f.URL)
	put("title", f.Title)
	put("source", f.Source)
	put("sector", f.Sector)
	put("topic", f.Topic)
	put("region", f.Region)
	put("country", f.Country)
	put("pestle", f.Pestle)
	put("start_year", f.StartYear)
	put("end_year", f.EndYear)
	put("added", f.Added)
	put("published", f.Published)
	put("impact", f.Impact)
	return out
}

// Numbers returns the constrained score fields as a name-to-value map.
func (f Filter) Numbers() map[string]float64 {
	out := map[string]float64{}
	if f.Intensity != nil {
		out["intensity"] = *f.Intensity
	}
	if f.Relevance != nil {
		out["relevance"] = *f.Relevance
	}
	if f.Likelihood != nil {
		out["likelihood"] = *f.Likelihood
	}
	return out
}

// Matches reports whether in satisfies every constraint in the filter.
func (f Filter) Matches(in Insight) bool {
	for name, want := range f.Strings() {
		if in.FieldValue(name) != want {
			return false
		}
	}
	for name, want := range f.Numbers() {
		got, _ := in.FieldValue(name).(float64)
		if got != want {
			return false
		}
	}
	return true
}
