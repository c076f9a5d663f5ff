package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/homorunner/ASG-benchmark/internal/promptcat"
	"github.com/homorunner/ASG-benchmark/internal/puzzle"
)

var answerRe = regexp.MustCompile(`\*\*Answer:\s*(\S+?)\*\*`)

var ErrEmptyCompletion = errors.New("no content in completion response")

// OpenAI solves puzzles through an OpenAI-compatible chat completions
// endpoint. One request is made per puzzle step; a failed request or a
// response without an **Answer: ...** marker yields an empty candidate for
// that step, which the engine scores as a miss.
type OpenAI struct {
	http        *fasthttp.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	timeout     time.Duration
	prompts     *promptcat.Catalog
	cache       *Cache
	logger      *zap.Logger
}

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Prompts     *promptcat.Catalog
	Cache       *Cache
	Logger      *zap.Logger
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("solver base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("solver API key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("solver model is required")
	}
	if cfg.Prompts == nil {
		prompts, err := promptcat.New("")
		if err != nil {
			return nil, err
		}
		cfg.Prompts = prompts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &OpenAI{
		http:        &fasthttp.Client{ReadTimeout: cfg.Timeout, WriteTimeout: 30 * time.Second, MaxConnsPerHost: 64},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		prompts:     cfg.Prompts,
		cache:       cfg.Cache,
		logger:      cfg.Logger,
	}, nil
}

func (o *OpenAI) Name() string {
	return fmt.Sprintf("OpenAI Solver (%s)", o.model)
}

func (o *OpenAI) Description() string {
	return fmt.Sprintf("OpenAI API solver using %s model", o.model)
}

// Probe sends a trivial completion to verify the endpoint is reachable
// before a long benchmark run burns through its puzzle list.
func (o *OpenAI) Probe(ctx context.Context) (string, error) {
	prompt, err := o.prompts.Render("solver.probe", nil)
	if err != nil {
		return "", err
	}
	return o.complete(ctx, prompt)
}

// Solve produces one candidate move per puzzle step. Failures are logged
// and recorded as empty candidates so the run keeps going.
func (o *OpenAI) Solve(ctx context.Context, p *puzzle.Puzzle) []string {
	results := make([]string, 0, len(p.GameStates))
	for i, state := range p.GameStates {
		prompt, err := o.prompts.Render("solver.puzzle", map[string]string{
			"GameType": string(p.GameType),
			"Goal":     p.Goal.String(),
			"State":    state,
		})
		if err != nil {
			o.logger.Error("build prompt", zap.String("puzzle", p.ID), zap.Int("step", i), zap.Error(err))
			results = append(results, "")
			continue
		}

		response, err := o.completeCached(ctx, prompt)
		if err != nil {
			o.logger.Warn("completion failed",
				zap.String("puzzle", p.ID), zap.Int("step", i), zap.Error(err))
			results = append(results, "")
			continue
		}

		answer := ExtractAnswer(response)
		if answer == "" {
			o.logger.Warn("no answer marker in response",
				zap.String("puzzle", p.ID), zap.Int("step", i))
		}
		results = append(results, answer)
	}
	return results
}

// ExtractAnswer pulls the move out of a model response formatted as
// **Answer: <move>**. The last marker wins so chain-of-thought restatements
// earlier in the response do not shadow the final answer.
func ExtractAnswer(response string) string {
	matches := answerRe.FindAllStringSubmatch(response, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(matches[len(matches)-1][1]))
}

func (o *OpenAI) completeCached(ctx context.Context, prompt string) (string, error) {
	if o.cache != nil {
		if cached, ok := o.cache.Get(ctx, o.model, prompt); ok {
			return cached, nil
		}
	}
	response, err := o.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if o.cache != nil {
		o.cache.Set(ctx, o.model, prompt, response)
	}
	return response, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: o.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(o.baseURL + "/chat/completions")
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.SetBody(payload)

	deadline := time.Now().Add(o.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := o.http.DoDeadline(req, resp, deadline); err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode(), err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode(), parsed.Error.Message)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return parsed.Choices[0].Message.Content, nil
}
