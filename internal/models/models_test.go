package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawConferenceIgnoresUnknownFields(t *testing.T) {
	body := `[{
		"name": "Droidcon India",
		"website": "https://droidcon.in",
		"location": "Bengaluru, India",
		"dateStart": "2024-12-13",
		"dateEnd": "2024-12-14",
		"status": "confirmed",
		"cfp": {"start": "2024-08-01", "site": "https://droidcon.in/cfp", "extra": 1}
	}]`

	var raws []RawConference
	require.NoError(t, json.Unmarshal([]byte(body), &raws))
	require.Len(t, raws, 1)

	raw := raws[0]
	assert.Equal(t, "Droidcon India", raw.Name)
	assert.Equal(t, "Bengaluru, India", raw.Location)
	require.NotNil(t, raw.Cfp)
	require.NotNil(t, raw.Cfp.Start)
	assert.Equal(t, "2024-08-01", *raw.Cfp.Start)
	assert.Nil(t, raw.Cfp.End)
	assert.Equal(t, "https://droidcon.in/cfp", *raw.Cfp.Site)
}

func TestConferenceWireShape(t *testing.T) {
	conf := Conference{
		Name:           "KotlinConf",
		Website:        "https://kotlinconf.com",
		City:           "",
		Country:        "",
		CountryFlagURL: "https://flagcdn.com/w80/un.png",
		DateStartEpoch: 1,
		DateEndEpoch:   2,
	}

	data, err := json.Marshal(conf)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Empty city/country must still be serialized
	assert.Contains(t, decoded, "city")
	assert.Contains(t, decoded, "country")
	assert.NotContains(t, decoded, "cfp")

	conf.Cfp = &Cfp{Site: StringPtr("https://kotlinconf.com/cfp")}
	data, err = json.Marshal(conf)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cfp":{"site":"https://kotlinconf.com/cfp"}`)
}

func TestCfpHasDates(t *testing.T) {
	var nilCfp *Cfp
	assert.False(t, nilCfp.HasDates())
	assert.False(t, (&Cfp{Site: StringPtr("x")}).HasDates())
	assert.True(t, (&Cfp{EndEpoch: Int64Ptr(10)}).HasDates())
}

func TestSummaryResultWireShape(t *testing.T) {
	prompt := NewSummaryPrompt(" https://droidcon.in ")
	assert.True(t, strings.Contains(prompt.Prompt, "https://droidcon.in\n"), "prompt should embed the trimmed url")
	assert.Contains(t, prompt.Prompt, "topics, speakers and location")

	data, err := json.Marshal(NewSummaryResult(prompt, "A conference."))
	require.NoError(t, err)

	var decoded struct {
		Inputs struct {
			Prompt string `json:"prompt"`
		} `json:"inputs"`
		Response struct {
			Response string `json:"response"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, prompt.Prompt, decoded.Inputs.Prompt)
	assert.Equal(t, "A conference.", decoded.Response.Response)
}

func TestErrorEnvelope(t *testing.T) {
	now := time.Date(2024, 12, 13, 0, 0, 0, 0, time.UTC)
	env := NewErrorEnvelope("boom", now)

	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, now.UnixMilli(), env.Timestamp)
	assert.JSONEq(t, `{"message":"boom","timestamp":1734048000000,"status":"error"}`, env.JSON())
}
