package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/user/collection-service/internal/agent"
	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
	"github.com/user/collection-service/internal/scrape"
	"github.com/user/collection-service/pkg/metrics"
)

// ErrSessionNotFound is returned for unknown, expired, consumed and
// foreign-owner sessions alike. Pollers retry on it until their own timeout.
var ErrSessionNotFound = repository.ErrSessionNotFound

// SubmitCaptureInput is what a capture agent delivers.
type SubmitCaptureInput struct {
	Token           string
	SourceURL       string
	CapturedContent string
	CaptureKind     string
	Hints           map[string]string
}

// CaptureManager bridges the two browser contexts: the agent submits into the
// session mailbox, the application tab polls the result out of it.
type CaptureManager interface {
	// Submit validates the token and stores the capture under a fresh
	// session id. Each call creates a new session; re-invoking an agent
	// never corrupts a prior session.
	Submit(ctx context.Context, in *SubmitCaptureInput) (string, error)
	// Result consumes the session (at most once) and runs extraction over
	// the stored payload.
	Result(ctx context.Context, sessionID, token string) (*scrape.Result, error)
	// AgentScript renders the injectable capture script for a valid token.
	AgentScript(ctx context.Context, token, kind string) (string, error)
}

type captureUseCase struct {
	tokens     TokenManager
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	baseURL    string
	now        func() time.Time
}

// NewCaptureManager creates a new CaptureManager use case.
func NewCaptureManager(tokens TokenManager, sessions repository.SessionRepository, sessionTTL time.Duration, baseURL string) CaptureManager {
	return &captureUseCase{
		tokens:     tokens,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		baseURL:    baseURL,
		now:        time.Now,
	}
}

func (uc *captureUseCase) Submit(ctx context.Context, in *SubmitCaptureInput) (string, error) {
	userID, err := uc.tokens.Validate(ctx, in.Token)
	if err != nil {
		return "", err
	}

	if _, err := url.ParseRequestURI(in.SourceURL); err != nil {
		return "", fmt.Errorf("invalid source url: %w", err)
	}
	kind := in.CaptureKind
	if kind == "" {
		kind = entity.KindGenericProduct
	}
	if !entity.ValidCaptureKind(kind) {
		return "", fmt.Errorf("unknown capture kind %q", kind)
	}

	sessionID := ulid.Make().String()
	payload := &entity.CapturePayload{
		UserID:          userID,
		SourceURL:       in.SourceURL,
		CapturedContent: in.CapturedContent,
		CaptureKind:     kind,
		Hints:           in.Hints,
		CapturedAt:      uc.now(),
	}
	if err := uc.sessions.Create(ctx, sessionID, payload, uc.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store capture session: %w", err)
	}

	metrics.CapturesTotal.WithLabelValues(kind, "submitted").Inc()
	slog.Info("Capture session created",
		"session_id", sessionID,
		"kind", kind,
		"content_bytes", len(in.CapturedContent),
	)
	return sessionID, nil
}

func (uc *captureUseCase) Result(ctx context.Context, sessionID, token string) (*scrape.Result, error) {
	userID, err := uc.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	payload, err := uc.sessions.Consume(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	result := scrape.Extract(payload)
	metrics.CapturesTotal.WithLabelValues(payload.CaptureKind, "consumed").Inc()
	metrics.ExtractionConfidence.WithLabelValues(payload.CaptureKind).Observe(result.Confidence)
	slog.Info("Capture session consumed",
		"session_id", sessionID,
		"kind", payload.CaptureKind,
		"success", result.Success,
		"confidence", result.Confidence,
	)
	return result, nil
}

func (uc *captureUseCase) AgentScript(ctx context.Context, token, kind string) (string, error) {
	if _, err := uc.tokens.Validate(ctx, token); err != nil {
		return "", err
	}
	if kind != "" && !entity.ValidCaptureKind(kind) {
		return "", fmt.Errorf("unknown capture kind %q", kind)
	}
	return agent.Script(agent.Params{
		Token:       token,
		SubmitURL:   uc.baseURL + "/api/capture/submit",
		CaptureKind: kind,
	})
}
