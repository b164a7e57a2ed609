package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"conference-worker/internal/api"
	"conference-worker/internal/config"
	"conference-worker/internal/logger"
	"conference-worker/internal/models"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch, normalize and print the conference list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), cmd.OutOrStdout(), api.Request{Method: http.MethodGet})
		},
	}
}

func newSummarizeCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Ask the model for a one-paragraph summary of a conference website",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(models.SummaryRequest{URL: url})
			if err != nil {
				return err
			}
			return runOnce(cmd.Context(), cmd.OutOrStdout(), api.Request{Method: http.MethodPost, Body: body})
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "Conference website (required)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// runOnce dispatches a single request in-process and prints the response body.
// A non-2xx status or an error envelope makes the command fail.
func runOnce(ctx context.Context, out io.Writer, req api.Request) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.New()
	if err != nil {
		return err
	}

	log := zerolog.Nop()
	if cfg.LogLevel == "debug" {
		log = logger.New("conference-worker", cfg.LogLevel)
	}

	dispatcher, err := api.Build(ctx, cfg, log, nil)
	if err != nil {
		return err
	}

	resp := dispatcher.Dispatch(ctx, req)
	return printResponse(out, resp)
}

func printResponse(out io.Writer, resp api.Response) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(resp.Body), "", "  "); err != nil {
		pretty.Reset()
		pretty.WriteString(resp.Body)
	}
	if _, err := fmt.Fprintln(out, pretty.String()); err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	var envelope models.ErrorEnvelope
	if json.Unmarshal([]byte(resp.Body), &envelope) == nil && envelope.Status == models.StatusError {
		return fmt.Errorf("request failed: %s", envelope.Message)
	}
	return nil
}
