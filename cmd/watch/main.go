// Command watch follows one video's render from the terminal. It polls the
// status endpoint with the same backoff schedule browser clients use and
// exits when the video reaches a terminal state or is interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"viducate/internal/domain"
	"viducate/internal/infra"
	"viducate/internal/poller"
)

type statusResponse struct {
	VideoID  int64  `json:"video_id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
}

func main() {
	_ = godotenv.Load()

	var (
		baseURL = flag.String("base-url", "http://localhost:8080", "API base URL")
		videoID = flag.Int64("video", 0, "video id to watch")
		token   = flag.String("token", os.Getenv("VIDUCATE_TOKEN"), "session token")
	)
	flag.Parse()

	logger := infra.NewLogger(os.Getenv("APP_ENV"))
	if *videoID == 0 {
		logger.Fatal().Msg("-video is required")
	}
	if *token == "" {
		logger.Fatal().Msg("-token or VIDUCATE_TOKEN is required")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	url := fmt.Sprintf("%s/v1/videos/%d/status", *baseURL, *videoID)

	check := func(ctx context.Context) (poller.CheckResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return poller.CheckResult{}, err
		}
		req.Header.Set("Authorization", "Bearer "+*token)

		resp, err := client.Do(req)
		if err != nil {
			return poller.CheckResult{}, err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusTooManyRequests:
			return poller.CheckResult{}, domain.ErrRateLimited
		default:
			return poller.CheckResult{}, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
		}

		var body statusResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return poller.CheckResult{}, err
		}
		logger.Info().Str("status", body.Status).Msg("checked")
		return poller.CheckResult{
			Status:   domain.VideoStatus(body.Status),
			VideoURL: body.VideoURL,
		}, nil
	}

	pollCfg := infra.LoadPollConfig()
	p := poller.New(check, poller.Config{
		Seed:           pollCfg.SeedInterval,
		Cap:            pollCfg.CapInterval,
		RateLimitDelay: pollCfg.RateLimitDelay,
	}, logger)
	p.Start(context.Background())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info().Msg("interrupted, canceling poll session")
		p.Cancel()
	}()

	out := p.Wait()
	switch {
	case errors.Is(out.Err, poller.ErrCanceled):
		os.Exit(130)
	case out.Err != nil:
		logger.Fatal().Err(out.Err).Msg("poll session failed")
	case out.Result.Status == domain.VideoStatusCompleted:
		logger.Info().Str("video_url", out.Result.VideoURL).Int("checks", out.Attempts).Msg("video ready")
		fmt.Println(out.Result.VideoURL)
	default:
		logger.Error().Int("checks", out.Attempts).Msg("video generation failed")
		os.Exit(1)
	}
}
