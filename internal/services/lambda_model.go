package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdaclient "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaInvokeAPI is the part of the Lambda client used to reach the model
type LambdaInvokeAPI interface {
	Invoke(ctx context.Context, params *lambdaclient.InvokeInput, optFns ...func(*lambdaclient.Options)) (*lambdaclient.InvokeOutput, error)
}

// LambdaModel runs prompts through another function that fronts the model.
// The function receives {"prompt": "..."} and may answer with any JSON value;
// objects carrying a "response" field are the common case.
type LambdaModel struct {
	client       LambdaInvokeAPI
	functionName string
}

// NewLambdaModel creates a model runner backed by a synchronous Lambda invoke
func NewLambdaModel(client LambdaInvokeAPI, functionName string) (*LambdaModel, error) {
	if functionName == "" {
		return nil, fmt.Errorf("model function name is required")
	}
	return &LambdaModel{client: client, functionName: functionName}, nil
}

type lambdaPromptPayload struct {
	Prompt string `json:"prompt"`
}

// Run invokes the model function and returns its decoded answer
func (m *LambdaModel) Run(ctx context.Context, prompt string) (ModelResult, error) {
	payload, err := json.Marshal(lambdaPromptPayload{Prompt: prompt})
	if err != nil {
		return ModelResult{}, NewError(KindModelError, "run model", fmt.Errorf("failed to marshal prompt: %w", err))
	}

	out, err := m.client.Invoke(ctx, &lambdaclient.InvokeInput{
		FunctionName:   aws.String(m.functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return ModelResult{}, NewError(KindModelError, "run model", fmt.Errorf("failed to invoke %s: %w", m.functionName, err))
	}
	if out.FunctionError != nil {
		return ModelResult{}, NewError(KindModelError, "run model",
			fmt.Errorf("model function %s failed: %s: %s", m.functionName, aws.ToString(out.FunctionError), string(out.Payload)))
	}

	return RawJSONResult(out.Payload)
}
