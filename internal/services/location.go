package services

import "strings"

// SplitLocation splits a free-text "city, ..., country" location.
//
//	""                                  -> ("", "")
//	"Berlin"                            -> ("Berlin", "")
//	"New York, USA"                     -> ("New York", "USA")
//	"San Francisco, California, USA"    -> ("San Francisco, California", "USA")
func SplitLocation(location string) (city, country string) {
	if strings.TrimSpace(location) == "" {
		return "", ""
	}

	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		return parts[0], ""
	case 2:
		return parts[0], parts[1]
	default:
		last := len(parts) - 1
		return strings.Join(parts[:last], ", "), parts[last]
	}
}
