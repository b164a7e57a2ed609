package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"conference-worker/internal/models"
)

// ConferenceTransformer turns raw feed entries into canonical conferences
type ConferenceTransformer struct {
	flagSize int
	logger   zerolog.Logger

	// OnUnknownCountry, when set, is called for every non-empty country that
	// fell back to the default flag
	OnUnknownCountry func(country string)
}

// NewConferenceTransformer creates a transformer using the default flag size
func NewConferenceTransformer(logger zerolog.Logger) *ConferenceTransformer {
	return NewConferenceTransformerWithFlagSize(logger, DefaultFlagSize)
}

// NewConferenceTransformerWithFlagSize creates a transformer with a custom flag width
func NewConferenceTransformerWithFlagSize(logger zerolog.Logger, flagSize int) *ConferenceTransformer {
	if flagSize <= 0 {
		flagSize = DefaultFlagSize
	}
	return &ConferenceTransformer{
		flagSize: flagSize,
		logger:   logger,
	}
}

// TransformConferences converts raw conferences with a default transformer
func TransformConferences(raws []models.RawConference) ([]models.Conference, error) {
	return NewConferenceTransformer(zerolog.Nop()).Transform(raws)
}

// Transform converts every record in order. Output has the same length and
// order as the input. An unparsable date fails the whole batch.
func (t *ConferenceTransformer) Transform(raws []models.RawConference) ([]models.Conference, error) {
	conferences := make([]models.Conference, 0, len(raws))
	for i, raw := range raws {
		conf, err := t.transformOne(raw)
		if err != nil {
			return nil, fmt.Errorf("conference %d (%q): %w", i, raw.Name, err)
		}
		conferences = append(conferences, conf)
	}
	return conferences, nil
}

func (t *ConferenceTransformer) transformOne(raw models.RawConference) (models.Conference, error) {
	city, country := SplitLocation(raw.Location)

	start, err := ToEpochSeconds(raw.DateStart)
	if err != nil {
		return models.Conference{}, err
	}
	end, err := ToEpochSeconds(raw.DateEnd)
	if err != nil {
		return models.Conference{}, err
	}

	cfp, err := transformCfp(raw.Cfp)
	if err != nil {
		return models.Conference{}, err
	}

	return models.Conference{
		Name:           raw.Name,
		Website:        raw.Website,
		City:           city,
		Country:        country,
		CountryFlagURL: t.flagURL(country),
		DateStartEpoch: start,
		DateEndEpoch:   end,
		Cfp:            cfp,
	}, nil
}

func (t *ConferenceTransformer) flagURL(country string) string {
	code, ok := CountryCode(country)
	if ok {
		return FlagURL(code, t.flagSize)
	}
	if country != "" {
		t.logger.Debug().Str("country", country).Msg("No country code found, using default flag")
		if t.OnUnknownCountry != nil {
			t.OnUnknownCountry(country)
		}
	}
	return DefaultFlagURL(t.flagSize)
}

func transformCfp(raw *models.RawCfp) (*models.Cfp, error) {
	if raw == nil {
		return nil, nil
	}

	start, err := optionalEpoch(raw.Start)
	if err != nil {
		return nil, fmt.Errorf("cfp start: %w", err)
	}
	end, err := optionalEpoch(raw.End)
	if err != nil {
		return nil, fmt.Errorf("cfp end: %w", err)
	}

	return &models.Cfp{
		StartEpoch: start,
		EndEpoch:   end,
		Site:       raw.Site,
	}, nil
}
