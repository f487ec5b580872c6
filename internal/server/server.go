package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/max-profit-solver/internal/config"
	"github.com/iwvelando/max-profit-solver/internal/optimizer"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/metrics"
	"github.com/iwvelando/max-profit-solver/pkg/output"
	"github.com/iwvelando/max-profit-solver/pkg/solver"
	"github.com/iwvelando/max-profit-solver/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	solver        solver.Solver
	recorder      *metrics.Recorder
	limiter       *rate.Limiter
	cache         *ResultCache
}

// HandlerOption customizes the handler built by NewHandler.
type HandlerOption func(*handler)

// WithRateLimit limits solve requests to rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) HandlerOption {
	return func(h *handler) {
		if rps <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithResultCache serves repeated successful solves from cache.
func WithResultCache(cache *ResultCache) HandlerOption {
	return func(h *handler) {
		h.cache = cache
	}
}

type solveOptions struct {
	AcceptWarnings bool
}

// NewHandler constructs the HTTP handler that serves the solve API. A nil
// solver uses the gonum simplex configured by each uploaded configuration;
// a nil recorder disables run metrics but /metrics still answers.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, s solver.Solver, rec *metrics.Recorder, opts ...HandlerOption) http.Handler {
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

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, solver: s, recorder: rec}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Solve API endpoint (file upload)
	mux.HandleFunc("/api/solve", h.limit(h.handleSolve))

	// Solve API endpoint for editor-driven updates
	mux.HandleFunc("/api/editor/solve", h.limit(h.handleSolveEditor))

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/metrics", rec.Handler())

	return mux
}

type solveResponse struct {
	Result     *optimizer.Result      `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
	CSV        string                 `json:"csv,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

// limit rejects requests beyond the configured rate with 429.
func (h *handler) limit(next http.HandlerFunc) http.HandlerFunc {
	if h.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			h.respondErrorWithOp(w, http.StatusTooManyRequests, "rate limit exceeded", "server.limit")
			return
		}
		next(w, r)
	}
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleSolve"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
		return
	}

	format := strings.TrimSpace(r.FormValue("format"))
	if format == "" {
		format = config.FormatYAML
		if config.IsLegacyPath(header.Filename) {
			format = config.FormatLegacy
		}
	}

	opts := solveOptions{AcceptWarnings: coerceBool(r.FormValue("acceptWarnings"))}
	h.runSolve(w, r, buf.Bytes(), format, start, "server.handleSolve", opts)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSolveEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleSolveEditor")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", "server.handleSolveEditor")
			return
		}
		configPayload = cfgMap
	}

	options := solveOptions{}
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", "server.handleSolveEditor")
			return
		}
		if acceptVal, ok := optsMap["acceptWarnings"]; ok {
			options.AcceptWarnings = coerceBool(acceptVal)
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleSolveEditor")
		return
	}

	h.runSolve(w, r, configBytes, config.FormatYAML, start, "server.handleSolveEditor", options)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configKeyOrder is the section order of exported configurations. Unknown
// keys follow in alphabetical order.
var configKeyOrder = []string{"logging", "output", "solver", "sensitivity", "global", "products", "objectives"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
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

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
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

func (h *handler) runSolve(w http.ResponseWriter, r *http.Request, configBytes []byte, format string, start time.Time, op string, opts solveOptions) {
	key := cacheKey(configBytes, format, opts)
	if body, ok := h.cache.Get(key); ok {
		h.logger.Debug("serving cached solve",
			zap.String("op", op),
		)
		w.Header().Set("X-Cache", "hit")
		h.writeBody(w, http.StatusOK, body)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes), format)
	if err != nil {
		h.recorder.ObserveRun(metrics.OutcomeInvalidInput)
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	runnerOpts := []optimizer.Option{
		optimizer.WithConfirm(validation.ProceedOnWarnings(opts.AcceptWarnings)),
		optimizer.WithRecorder(h.recorder),
	}
	if h.solver != nil {
		runnerOpts = append(runnerOpts, optimizer.WithSolver(h.solver))
	}
	runner, err := optimizer.NewRunner(h.logger, cfg, runnerOpts...)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize solver: %v", err), op)
		return
	}

	result, runErr := runner.Run(r.Context())
	elapsed := time.Since(start)

	response := solveResponse{
		Result:   result,
		Duration: elapsed.String(),
	}
	if result != nil {
		response.Warnings = result.Validation.WarningMessages()
	}
	if normalized, err := yaml.Marshal(cfg); err != nil {
		h.logger.Warn("failed to marshal normalized configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	} else {
		response.ConfigYAML = string(normalized)
		if configMap, mapErr := decodeYAMLToMap(normalized); mapErr == nil {
			response.Config = configMap
		}
	}

	if runErr != nil {
		status := statusForRunError(runErr)
		response.Error = runErr.Error()
		h.logger.Error("solve request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.Error(runErr),
		)
		h.writeJSON(w, status, response)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, result); err != nil {
		h.logger.Warn("failed to render csv",
			zap.String("op", op),
			zap.Error(err),
		)
	} else {
		response.CSV = csvBuf.String()
	}

	h.logger.Info("solve computed",
		zap.String("op", op),
		zap.Int("products", len(result.Verification.Rows)),
		zap.Int("violations", len(result.Verification.Violations)),
		zap.Duration("duration", elapsed),
	)

	body, err := json.Marshal(response)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(key, body); err != nil {
			h.logger.Warn("failed to cache solve response",
				zap.String("op", op),
				zap.Error(err),
			)
		}
		w.Header().Set("X-Cache", "miss")
	}
	h.writeBody(w, http.StatusOK, body)
}

// statusForRunError maps pipeline failures onto HTTP status codes.
func statusForRunError(err error) int {
	switch {
	case errors.Is(err, optimizer.ErrCriticalConstraints), errors.Is(err, optimizer.ErrDeclined):
		return http.StatusUnprocessableEntity
	case errors.Is(err, optimizer.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
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

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleSolve")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("solve request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
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
