package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/collection-service/internal/adapter/chromedp_fetcher"
	"github.com/user/collection-service/internal/agent"
	"github.com/user/collection-service/internal/delivery/http/request"
	"github.com/user/collection-service/internal/delivery/http/response"
)

var (
	serverURL    string
	captureToken string
	captureKind  string
	pageTimeout  time.Duration
	pollInterval time.Duration
	pollTimeout  time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "capturectl",
	Short: "Drive captures against a collection service from the command line",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the collection service")
	rootCmd.PersistentFlags().StringVar(&captureToken, "token", "", "capture token (issue one via POST /api/capture-tokens)")
	rootCmd.PersistentFlags().StringVar(&captureKind, "kind", "generic_product", "capture kind: return_policy, price_match_policy or generic_product")

	captureCmd.Flags().DurationVar(&pageTimeout, "page-timeout", 60*time.Second, "page load timeout")
	pollCmd.Flags().DurationVar(&pollInterval, "interval", 2*time.Second, "polling interval")
	pollCmd.Flags().DurationVar(&pollTimeout, "timeout", 60*time.Second, "give up after this long")

	rootCmd.AddCommand(scriptCmd, captureCmd, pollCmd)
}

// script command
var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the injectable capture script for a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if captureToken == "" {
			return errors.New("--token is required")
		}
		s, err := agent.Script(agent.Params{
			Token:       captureToken,
			SubmitURL:   serverURL + "/api/capture/submit",
			CaptureKind: captureKind,
		})
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	},
}

// capture command
var captureCmd = &cobra.Command{
	Use:   "capture <url>",
	Short: "Fetch a page headlessly and submit it as a capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if captureToken == "" {
			return errors.New("--token is required")
		}
		pageURL := args[0]

		fetcher, err := chromedp_fetcher.NewChromedpFetcher(1, pageTimeout)
		if err != nil {
			return fmt.Errorf("starting browser: %w", err)
		}
		html, err := fetcher.FetchHTML(context.Background(), pageURL)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", pageURL, err)
		}

		body, err := json.Marshal(request.SubmitCaptureRequest{
			Token:           captureToken,
			SourceURL:       pageURL,
			CapturedContent: html,
			CaptureKind:     captureKind,
		})
		if err != nil {
			return err
		}

		resp, err := http.Post(serverURL+"/api/capture/submit", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("submitting capture: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("capture submit returned %s", resp.Status)
		}

		var submitted response.SubmitCaptureResponse
		if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
			return err
		}
		fmt.Println(submitted.SessionID)
		return nil
	},
}

// poll command
var pollCmd = &cobra.Command{
	Use:   "poll <session-id>",
	Short: "Poll a capture session until the result is ready",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if captureToken == "" {
			return errors.New("--token is required")
		}
		sessionID := args[0]
		resultURL := fmt.Sprintf("%s/api/capture/result?session_id=%s&token=%s", serverURL, sessionID, captureToken)

		deadline := time.Now().Add(pollTimeout)
		for {
			resp, err := http.Get(resultURL)
			if err != nil {
				return fmt.Errorf("polling capture result: %w", err)
			}

			switch resp.StatusCode {
			case http.StatusOK:
				var out bytes.Buffer
				dec := json.NewDecoder(resp.Body)
				var result json.RawMessage
				if err := dec.Decode(&result); err != nil {
					resp.Body.Close()
					return err
				}
				resp.Body.Close()
				if err := json.Indent(&out, result, "", "  "); err != nil {
					return err
				}
				fmt.Println(out.String())
				return nil
			case http.StatusNotFound:
				resp.Body.Close()
				if time.Now().After(deadline) {
					return errors.New("capture not received before timeout")
				}
				time.Sleep(pollInterval)
			default:
				resp.Body.Close()
				return fmt.Errorf("capture result returned %s", resp.Status)
			}
		}
	},
}
