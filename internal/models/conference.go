package models

// RawConference is one entry of the upstream upcoming-conferences feed.
// Unknown fields in the feed are ignored by the decoder.
type RawConference struct {
	Name      string  `json:"name"`
	Website   string  `json:"website"`
	Location  string  `json:"location"`  // free text, "city, ..., country"
	DateStart string  `json:"dateStart"` // usually YYYY-MM-DD
	DateEnd   string  `json:"dateEnd"`
	Cfp       *RawCfp `json:"cfp,omitempty"`
}

// RawCfp is the optional call-for-papers block of a raw conference
type RawCfp struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
	Site  *string `json:"site,omitempty"`
}

// Conference is the canonical record served to clients.
// City and Country are always present on the wire, possibly empty.
type Conference struct {
	Name           string `json:"name"`
	Website        string `json:"website"`
	City           string `json:"city"`
	Country        string `json:"country"`
	CountryFlagURL string `json:"countryFlagUrl"`
	DateStartEpoch int64  `json:"dateStartEpoch"`
	DateEndEpoch   int64  `json:"dateEndEpoch"`
	Cfp            *Cfp   `json:"cfp,omitempty"`
}

// Cfp is the canonical call-for-papers block. Each field stays nil when the
// upstream record did not carry it.
type Cfp struct {
	StartEpoch *int64  `json:"startEpoch,omitempty"`
	EndEpoch   *int64  `json:"endEpoch,omitempty"`
	Site       *string `json:"site,omitempty"`
}

// HasDates reports whether either call-for-papers date is known
func (c *Cfp) HasDates() bool {
	return c != nil && (c.StartEpoch != nil || c.EndEpoch != nil)
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
