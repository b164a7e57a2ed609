package services

import (
	"fmt"
	"strings"
)

// DefaultFlagSize is the flag width requested from the flag CDN
const DefaultFlagSize = 80

// unknownCountryCode is the flag shown when a country cannot be resolved
const unknownCountryCode = "un"

type countryMapping struct {
	name string
	code string
}

// countryMappings is searched in order by the fuzzy matcher, so the first
// entry that matches wins. Keep canonical names ahead of aliases.
var countryMappings = []countryMapping{
	// Major countries
	{"united states", "us"},
	{"india", "in"},
	{"germany", "de"},
	{"japan", "jp"},
	{"united kingdom", "gb"},
	{"canada", "ca"},
	{"australia", "au"},
	{"france", "fr"},
	{"italy", "it"},
	{"spain", "es"},
	{"brazil", "br"},
	{"china", "cn"},
	{"south korea", "kr"},
	{"netherlands", "nl"},
	{"singapore", "sg"},
	{"denmark", "dk"},
	{"sweden", "se"},
	{"norway", "no"},
	{"poland", "pl"},
	{"finland", "fi"},
	{"austria", "at"},
	{"belgium", "be"},
	{"switzerland", "ch"},
	{"portugal", "pt"},
	{"ireland", "ie"},
	{"israel", "il"},
	{"turkey", "tr"},
	{"russia", "ru"},
	{"ukraine", "ua"},
	{"romania", "ro"},
	{"greece", "gr"},
	{"hungary", "hu"},
	{"czech republic", "cz"},
	{"slovakia", "sk"},
	{"croatia", "hr"},
	{"serbia", "rs"},
	{"bulgaria", "bg"},
	{"lithuania", "lt"},
	{"latvia", "lv"},
	{"estonia", "ee"},
	{"slovenia", "si"},
	{"mexico", "mx"},
	{"argentina", "ar"},
	{"chile", "cl"},
	{"colombia", "co"},
	{"peru", "pe"},
	{"venezuela", "ve"},
	{"south africa", "za"},
	{"egypt", "eg"},
	{"kenya", "ke"},
	{"nigeria", "ng"},
	{"morocco", "ma"},
	{"thailand", "th"},
	{"vietnam", "vn"},
	{"indonesia", "id"},
	{"malaysia", "my"},
	{"philippines", "ph"},
	{"taiwan", "tw"},
	{"hong kong", "hk"},
	{"new zealand", "nz"},

	// Common variations and abbreviations
	{"usa", "us"},
	{"america", "us"},
	{"uk", "gb"},
	{"britain", "gb"},
	{"england", "gb"},
	{"scotland", "gb"},
	{"wales", "gb"},
	{"northern ireland", "gb"},
	{"uae", "ae"},
	{"united arab emirates", "ae"},
	{"korea", "kr"},
	{"republic of korea", "kr"},
	{"czech", "cz"},
	{"czechia", "cz"},
	{"holland", "nl"},
	{"bosnia", "ba"},
	{"bosnia and herzegovina", "ba"},
	{"macedonia", "mk"},
	{"north macedonia", "mk"},
	{"jordan", "jo"},

	// Tech hubs that show up in the country position
	{"silicon valley", "us"},
	{"bay area", "us"},
}

var countryIndex = buildCountryIndex(countryMappings)

func buildCountryIndex(mappings []countryMapping) map[string]string {
	index := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if _, exists := index[m.name]; !exists {
			index[m.name] = m.code
		}
	}
	return index
}

// CountryCode resolves a free-text country name to a two-letter code using an
// exact lookup followed by a substring/word-overlap match over the table
func CountryCode(countryName string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(countryName))
	if len(normalized) < 2 {
		return "", false
	}

	if code, ok := countryIndex[normalized]; ok {
		return code, true
	}

	for _, m := range countryMappings {
		if fuzzyCountryMatch(m.name, normalized) {
			return m.code, true
		}
	}

	return "", false
}

func fuzzyCountryMatch(key, input string) bool {
	if strings.Contains(key, input) || strings.Contains(input, key) {
		return true
	}
	for _, word := range strings.Fields(input) {
		if len(word) > 2 && strings.Contains(key, word) {
			return true
		}
	}
	for _, word := range strings.Fields(key) {
		if len(word) > 2 && strings.Contains(input, word) {
			return true
		}
	}
	return false
}

// FlagURL returns the flag image URL for a country code
func FlagURL(code string, size int) string {
	if size <= 0 {
		size = DefaultFlagSize
	}
	return fmt.Sprintf("https://flagcdn.com/w%d/%s.png", size, strings.ToLower(code))
}

// DefaultFlagURL returns the "unknown nation" flag
func DefaultFlagURL(size int) string {
	return FlagURL(unknownCountryCode, size)
}

// FlagURLFor never fails: unresolvable names get the default flag
func FlagURLFor(countryName string) string {
	return flagURLForSize(countryName, DefaultFlagSize)
}

func flagURLForSize(countryName string, size int) string {
	if code, ok := CountryCode(countryName); ok {
		return FlagURL(code, size)
	}
	return DefaultFlagURL(size)
}
