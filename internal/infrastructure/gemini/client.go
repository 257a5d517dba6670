package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

// Config holds settings for the Gemini client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client generates diet plans through the Gemini generateContent API
type Client struct {
	http        *resty.Client
	apiKey      string
	model       string
	temperature float64
	validate    *validator.Validate
	rateLimiter *rate.Limiter
	logger      *log.Logger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
	Temperature      float64        `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// NewClient creates a new Gemini client
func NewClient(cfg Config, logger *log.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "NexaNutri/1.0"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		validate:    validator.New(),
		// free tier allows roughly 10 requests per minute
		rateLimiter: rate.NewLimiter(rate.Every(6*time.Second), 5),
		logger:      logger,
	}
}

// Generate asks the model for a diet plan matching the profile
func (c *Client) Generate(ctx context.Context, profile domain.UserProfile) (*domain.DietPlan, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrGenerationFailed, err)
	}

	request := generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(profile)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   dietPlanSchema,
			Temperature:      c.temperature,
		},
	}

	c.logger.Info("generating diet plan", "model", c.model, "goal", profile.Goal)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(request).
		Post("/models/" + c.model + ":generateContent")
	if err != nil {
		c.logger.Error("generateContent request failed", "err", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	if resp.IsError() {
		err := classifyError(resp.StatusCode(), resp.Body())
		c.logger.Error("generateContent returned error", "status", resp.StatusCode(), "err", err)
		return nil, err
	}

	text := gjson.GetBytes(resp.Body(), "candidates.0.content.parts.0.text").String()
	plan, err := c.parsePlan(text)
	if err != nil {
		c.logger.Error("could not read diet plan", "err", err)
		return nil, err
	}

	c.logger.Info("diet plan generated", "meals", len(plan.Meals), "calories", plan.TotalCalories)
	return plan, nil
}

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// parsePlan decodes the model text, tolerating markdown code fences around the JSON.
func (c *Client) parsePlan(text string) (*domain.DietPlan, error) {
	text = strings.TrimSpace(fenceReplacer.Replace(text))
	if text == "" {
		return nil, fmt.Errorf("%w: model returned no text", domain.ErrGenerationFailed)
	}

	var plan domain.DietPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("%w: failed to decode plan: %v", domain.ErrGenerationFailed, err)
	}

	if err := c.validate.Struct(&plan); err != nil {
		return nil, fmt.Errorf("%w: incomplete plan: %v", domain.ErrGenerationFailed, err)
	}

	return &plan, nil
}

// classifyError maps an error answer of the API to a domain error
func classifyError(status int, body []byte) error {
	message := gjson.GetBytes(body, "error.message").String()
	if message == "" {
		message = http.StatusText(status)
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = domain.ErrInvalidAPIKey
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "api key"):
		sentinel = domain.ErrInvalidAPIKey
	case status == http.StatusTooManyRequests:
		sentinel = domain.ErrQuotaExceeded
	case status == http.StatusServiceUnavailable:
		sentinel = domain.ErrModelOverloaded
	default:
		sentinel = domain.ErrGenerationFailed
	}

	return fmt.Errorf("%w: HTTP %d: %s", sentinel, status, message)
}
