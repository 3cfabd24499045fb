// Package server exposes the condo sale forecast over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/condo-forecast/internal/cache"
	"github.com/iwvelando/condo-forecast/internal/config"
	"github.com/iwvelando/condo-forecast/internal/forecast"
	"github.com/iwvelando/condo-forecast/internal/metrics"
	"github.com/iwvelando/condo-forecast/internal/optimizer"
	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/iwvelando/condo-forecast/pkg/output"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:generate mockgen -destination=mocks/mock_cache.go -package=mocks github.com/iwvelando/condo-forecast/internal/server ResultCache

// ResultCache stores encoded forecast responses keyed by request content.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Option customizes the handler built by NewHandler.
type Option func(*handler)

// WithCache enables response caching.
func WithCache(c ResultCache) Option {
	return func(h *handler) {
		h.cache = c
	}
}

// WithMetrics records request and forecast metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *handler) {
		h.metrics = m
	}
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         ResultCache
	metrics       *metrics.Metrics
}

type forecastOptions struct {
	Optimize bool
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}

	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/forecast", h.handleForecast)
		r.Post("/editor/forecast", h.handleForecastEditor)
		r.Post("/editor/export", h.handleConfigExport)
		r.Get("/version", h.handleVersion)
	})

	return r
}

type forecastResponse struct {
	ID         string                 `json:"id"`
	Scenarios  []forecast.Forecast    `json:"scenarios"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

// requestError carries the HTTP status and metric reason of a rejected request.
type requestError struct {
	status int
	reason string
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(reason, format string, args ...interface{}) *requestError {
	return &requestError{status: http.StatusBadRequest, reason: reason, msg: fmt.Sprintf(format, args...)}
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.fail(w, op, &requestError{
				status: http.StatusRequestEntityTooLarge,
				reason: "too_large",
				msg:    fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize),
			})
			return
		}
		h.fail(w, op, badRequest("upload", "failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, op, badRequest("upload", "missing configuration file"))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.fail(w, op, &requestError{
			status: http.StatusInternalServerError,
			reason: "upload",
			msg:    fmt.Sprintf("failed to read configuration: %v", err),
		})
		return
	}

	h.serveForecast(w, r, op, buf.Bytes(), start, forecastOptions{})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleForecastEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecastEditor"

	start := time.Now()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.fail(w, op, badRequest("decode", "failed to decode configuration: %v", err))
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.fail(w, op, badRequest("decode", "invalid config payload: expected object"))
			return
		}
		configPayload = cfgMap
	}

	options := forecastOptions{}
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.fail(w, op, badRequest("decode", "invalid options payload: expected object"))
			return
		}
		if optimizeVal, ok := optsMap["optimize"]; ok {
			options.Optimize = coerceBool(optimizeVal)
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.fail(w, op, badRequest("decode", "failed to encode configuration: %v", err))
		return
	}

	h.serveForecast(w, r, op, configBytes, start, options)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.fail(w, op, badRequest("decode", "failed to decode configuration: %v", err))
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.fail(w, op, badRequest("decode", "failed to encode configuration: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// marshalOrderedConfigYAML writes common before scenarios and keeps the
// remaining top-level keys sorted.
func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "common", "scenarios"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// serveForecast answers from the cache when possible and otherwise computes,
// stores and writes a fresh response.
func (h *handler) serveForecast(w http.ResponseWriter, r *http.Request, op string, configBytes []byte, start time.Time, opts forecastOptions) {
	key := cache.Key([]byte(op), []byte(strconv.FormatBool(opts.Optimize)), configBytes)

	if cached, ok := h.lookup(r.Context(), op, key); ok {
		w.Header().Set("X-Cache", "hit")
		h.writeRaw(w, http.StatusOK, cached)
		return
	}

	response, reqErr := h.runForecast(configBytes, start, op, opts)
	if reqErr != nil {
		h.fail(w, op, reqErr)
		return
	}

	body, err := json.Marshal(response)
	if err != nil {
		h.fail(w, op, &requestError{
			status: http.StatusInternalServerError,
			reason: "encode",
			msg:    fmt.Sprintf("failed to encode response: %v", err),
		})
		return
	}
	body = append(body, '\n')

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, body); err != nil {
			h.logger.Warn("failed to store forecast in cache",
				zap.String("op", op),
				zap.Error(err),
			)
		}
		w.Header().Set("X-Cache", "miss")
	}

	h.writeRaw(w, http.StatusOK, body)
}

func (h *handler) lookup(ctx context.Context, op, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}

	cached, ok, err := h.cache.Get(ctx, key)
	switch {
	case err != nil:
		h.countCache(metrics.CacheError)
		h.logger.Warn("cache lookup failed, computing forecast",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, false
	case !ok:
		h.countCache(metrics.CacheMiss)
		return nil, false
	}

	h.countCache(metrics.CacheHit)
	h.logger.Debug("serving forecast from cache",
		zap.String("op", op),
		zap.String("key", key),
	)
	return cached, true
}

func (h *handler) countCache(result string) {
	if h.metrics != nil {
		h.metrics.CacheRequests.WithLabelValues(result).Inc()
	}
}

func (h *handler) runForecast(configBytes []byte, start time.Time, op string, opts forecastOptions) (*forecastResponse, *requestError) {
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		return nil, badRequest("invalid_config", "error reading config data, %v", err)
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return nil, badRequest("invalid_config", "%v", err)
	}

	warnings := cfg.ValidateConfiguration()

	runner, err := optimizer.NewRunner(h.logger, cfg)
	if err != nil {
		return nil, badRequest("optimizer", "failed to initialize optimizer: %v", err)
	}
	runner.All = opts.Optimize

	optimizationResult, err := runner.Run()
	if err != nil {
		return nil, badRequest("optimizer", "optimizer execution failed: %v", err)
	}

	results := forecast.GetForecast(h.logger, *cfg)
	if optimizationResult != nil && !optimizationResult.Empty() {
		optimizationResult.Apply(results)
	}

	var csvBuf bytes.Buffer
	output.CsvFormat(&csvBuf, results)

	elapsed := time.Since(start)
	h.observe(results, elapsed)

	response := &forecastResponse{
		ID:         ulid.Make().String(),
		Scenarios:  results,
		CSV:        csvBuf.String(),
		Warnings:   normalizeNotes(warnings),
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("id", response.ID),
		zap.Int("scenarios", len(results)),
		zap.Int("warnings", len(response.Warnings)),
		zap.Duration("duration", elapsed),
	)

	return response, nil
}

func (h *handler) observe(results []forecast.Forecast, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveForecast(len(results), elapsed)
	for _, result := range results {
		if result.Metrics.BreakEven != nil {
			h.metrics.OptimizerIterations.Observe(float64(result.Metrics.BreakEven.Iterations))
		}
	}
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) fail(w http.ResponseWriter, op string, err *requestError) {
	h.logger.Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", err.status),
		zap.String("error", err.msg),
	)
	if h.metrics != nil {
		h.metrics.ForecastErrors.WithLabelValues(err.reason).Inc()
	}

	h.writeJSON(w, err.status, map[string]string{"error": err.msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func normalizeNotes(notes []string) []string {
	if len(notes) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(notes))
	for _, note := range notes {
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
