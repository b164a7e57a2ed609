package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLocation(t *testing.T) {
	testCases := []struct {
		name            string
		location        string
		expectedCity    string
		expectedCountry string
	}{
		{"empty", "", "", ""},
		{"whitespace only", "   ", "", ""},
		{"single part", "Berlin", "Berlin", ""},
		{"single part padded", "  Berlin  ", "Berlin", ""},
		{"two parts", "New York, USA", "New York", "USA"},
		{"extra whitespace", " London , United Kingdom ", "London", "United Kingdom"},
		{"three parts", "San Francisco, California, USA", "San Francisco, California", "USA"},
		{"four parts", "Mountain View, Santa Clara County, California, USA", "Mountain View, Santa Clara County, California", "USA"},
		{"trailing comma", "Berlin,", "Berlin", ""},
		{"leading comma", ", Germany", "", "Germany"},
		{"online", "Online", "Online", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			city, country := SplitLocation(tc.location)
			assert.Equal(t, tc.expectedCity, city)
			assert.Equal(t, tc.expectedCountry, country)
		})
	}
}

func TestSplitLocation_SingleSegmentProperty(t *testing.T) {
	inputs := []string{"Tokyo", " Paris", "Bengaluru ", "São Paulo", "Remote / Online"}
	for _, input := range inputs {
		city, country := SplitLocation(input)
		assert.Equal(t, strings.TrimSpace(input), city)
		assert.Equal(t, "", country)
	}
}

func TestSplitLocation_ManySegmentsProperty(t *testing.T) {
	inputs := [][]string{
		{"a", "b", "c"},
		{" Mountain View ", "CA", " USA"},
		{"1", "2", "3", "4", "5"},
	}
	for _, parts := range inputs {
		city, country := SplitLocation(strings.Join(parts, ","))

		trimmed := make([]string, len(parts))
		for i, p := range parts {
			trimmed[i] = strings.TrimSpace(p)
		}
		assert.Equal(t, trimmed[len(trimmed)-1], country)
		assert.Equal(t, strings.Join(trimmed[:len(trimmed)-1], ", "), city)
	}
}
