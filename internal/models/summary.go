package models

import (
	"fmt"
	"strings"
)

// SummaryRequest is the POST body asking for a conference summary
type SummaryRequest struct {
	URL string `json:"url"`
}

// SummaryPrompt holds the prompt text sent to the model.
// The field name is part of the wire contract ("inputs.prompt").
type SummaryPrompt struct {
	Prompt string `json:"prompt"`
}

// SummaryResponse wraps the text produced by the model
type SummaryResponse struct {
	Response string `json:"response"`
}

// SummaryResult is the body returned for a successful summary request
type SummaryResult struct {
	Inputs   SummaryPrompt   `json:"inputs"`
	Response SummaryResponse `json:"response"`
}

// summaryTemplate asks for one paragraph about the conference behind a website
const summaryTemplate = `Provide one paragraph information about %s
Response should only contain text and should give brief about conference
topics, speakers and location.`

// NewSummaryPrompt builds the prompt for the given conference website
func NewSummaryPrompt(websiteURL string) SummaryPrompt {
	return SummaryPrompt{
		Prompt: fmt.Sprintf(summaryTemplate, strings.TrimSpace(websiteURL)),
	}
}

// NewSummaryResult pairs a prompt with the text the model produced for it
func NewSummaryResult(prompt SummaryPrompt, responseText string) SummaryResult {
	return SummaryResult{
		Inputs:   prompt,
		Response: SummaryResponse{Response: responseText},
	}
}
