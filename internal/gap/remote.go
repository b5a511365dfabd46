package gap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRemoteUnavailable indicates the prediction service could not be used.
var ErrRemoteUnavailable = errors.New("remote scorer unavailable")

// RemoteConfig configures the prediction service client.
type RemoteConfig struct {
	URL     string
	Timeout time.Duration
}

// RemoteScorer asks an external prediction service for smarter per-skill
// level estimates and remediation hours, then runs them through the local
// algorithm so every result invariant still holds.
type RemoteScorer struct {
	url    string
	client *http.Client
	cfg    Config
}

var _ Scorer = (*RemoteScorer)(nil)

// NewRemoteScorer creates a RemoteScorer for the given endpoint.
func NewRemoteScorer(rc RemoteConfig, cfg Config) *RemoteScorer {
	timeout := rc.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteScorer{
		url:    rc.URL,
		client: &http.Client{Timeout: timeout},
		cfg:    cfg.withDefaults(),
	}
}

type predictRequest struct {
	UserID       string             `json:"userId"`
	Role         RoleRef            `json:"role"`
	Skills       []SkillProficiency `json:"skills"`
	Requirements []RoleRequirement  `json:"requirements"`
}

type prediction struct {
	SkillID        string   `json:"skillId"`
	PredictedLevel *float64 `json:"predictedLevel"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

type predictResponse struct {
	Predictions []prediction `json:"predictions"`
}

// Score calls the prediction service. Any transport, status or decoding
// failure is reported as ErrRemoteUnavailable so the caller can fall back.
func (s *RemoteScorer) Score(ctx context.Context, in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}
	if s.url == "" {
		return Result{}, fmt.Errorf("%w: no endpoint configured", ErrRemoteUnavailable)
	}

	preds, err := s.predict(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	adjusted := Input{
		UserID:       in.UserID,
		Role:         in.Role,
		Skills:       make(map[string]SkillProficiency, len(in.Skills)+len(preds)),
		Requirements: in.Requirements,
	}
	for id, p := range in.Skills {
		adjusted.Skills[id] = p
	}
	hours := make(map[string]float64)
	for _, p := range preds {
		if p.PredictedLevel != nil {
			sp := adjusted.Skills[p.SkillID]
			sp.SkillID = p.SkillID
			sp.Level = clampLevel(*p.PredictedLevel)
			adjusted.Skills[p.SkillID] = sp
		}
		if p.EstimatedHours != nil && *p.EstimatedHours > 0 {
			hours[p.SkillID] = *p.EstimatedHours
		}
	}

	res := Analyze(adjusted, s.cfg)
	if len(hours) > 0 {
		res.TotalEstimatedHours = 0
		for i := range res.Gaps {
			if h, ok := hours[res.Gaps[i].SkillID]; ok {
				res.Gaps[i].EstimatedTimeToClose = h
			}
			res.TotalEstimatedHours += res.Gaps[i].EstimatedTimeToClose
		}
	}
	res.Scorer = ScorerRemote
	return res, nil
}

// Name returns "remote".
func (s *RemoteScorer) Name() string { return ScorerRemote }

func (s *RemoteScorer) predict(ctx context.Context, in Input) ([]prediction, error) {
	body := predictRequest{
		UserID:       in.UserID,
		Role:         in.Role,
		Skills:       make([]SkillProficiency, 0, len(in.Skills)),
		Requirements: in.Requirements,
	}
	for _, p := range in.Skills {
		body.Skills = append(body.Skills, p)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Predictions, nil
}

func clampLevel(v float64) int {
	l := int(v + 0.5)
	return min(max(l, MinLevel), MaxLevel)
}
