package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultModelName is the instruct model used for conference summaries
const DefaultModelName = "@cf/meta/llama-3-8b-instruct"

// ModelRunner runs a prompt against a hosted inference model
type ModelRunner interface {
	Run(ctx context.Context, prompt string) (ModelResult, error)
}

type modelResultKind int

const (
	modelResultText modelResultKind = iota + 1
	modelResultRaw
)

// ModelResult is what a model returned: either plain text or an opaque
// decoded value (usually a JSON object with a "response" field)
type ModelResult struct {
	kind modelResultKind
	text string
	raw  interface{}
}

// TextResult wraps a plain text model answer
func TextResult(text string) ModelResult {
	return ModelResult{kind: modelResultText, text: text}
}

// RawResult wraps an opaque decoded model answer
func RawResult(raw interface{}) ModelResult {
	return ModelResult{kind: modelResultRaw, raw: raw}
}

// RawJSONResult decodes a JSON payload into a raw result
func RawJSONResult(payload []byte) (ModelResult, error) {
	var raw interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ModelResult{}, NewError(KindModelError, "decode model result", err)
	}
	return RawResult(raw), nil
}

// ExtractResponseText returns the text of a model result. Structured results
// with a "response" field yield that field; anything else is stringified.
func ExtractResponseText(result ModelResult) (string, error) {
	switch result.kind {
	case modelResultText:
		return result.text, nil
	case modelResultRaw:
		if result.raw == nil {
			return "", NewError(KindModelError, "extract model response", fmt.Errorf("model returned no result"))
		}
		if obj, ok := result.raw.(map[string]interface{}); ok {
			if response, exists := obj["response"]; exists && response != nil {
				return stringify(response)
			}
		}
		return stringify(result.raw)
	default:
		return "", NewError(KindModelError, "extract model response", fmt.Errorf("empty model result"))
	}
}

func stringify(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", NewError(KindModelError, "extract model response", err)
	}
	return string(data), nil
}
