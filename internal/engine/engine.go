// Package engine implements the clinical scoring pipeline: parameter
// validation, unit normalization, formula evaluation, risk classification,
// interpretation resolution and result composition. Every stage is a pure
// function; Engine only wires them together and logs.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/domain"
)

// CalculatorSource resolves calculator definitions by ID.
type CalculatorSource interface {
	Get(id string) (*domain.Calculator, error)
}

// Engine executes compute requests. It is stateless between calls and safe
// for concurrent use; each invocation works on a fresh parameter set.
type Engine struct {
	logger *logrus.Logger
	source CalculatorSource
	cache  domain.ResultCache
}

// Option is a functional option for Engine.
type Option func(*Engine)

// WithCache attaches a deterministic result cache.
func WithCache(cache domain.ResultCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// New creates a scoring engine over the given calculator source.
func New(logger *logrus.Logger, source CalculatorSource, opts ...Option) *Engine {
	e := &Engine{
		logger: logger,
		source: source,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the full pipeline for one request. On validation failure it
// returns the outcome with a nil result; the caller surfaces field-localized
// issues and keeps any prior result visible. Warnings never block.
func (e *Engine) Compute(ctx context.Context, req *domain.ComputeRequest) (*domain.CalculationResult, *domain.ValidationOutcome, error) {
	start := time.Now()

	calc, err := e.source.Get(req.CalculatorID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving calculator %q: %w", req.CalculatorID, err)
	}

	normalized, normIssues := NormalizeValues(calc, req.Values)
	outcome := Validate(calc, normalized, req)
	outcome.Issues = append(normIssues, outcome.Issues...)

	if outcome.Blocked() {
		e.logger.WithFields(logrus.Fields{
			"calculator": calc.ID,
			"errors":     len(outcome.Errors()),
			"warnings":   len(outcome.Warnings()),
		}).Debug("Computation blocked by validation")
		return nil, outcome, nil
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, RequestKey(req)); ok {
			e.logger.WithField("calculator", calc.ID).Debug("Result cache hit")
			return cached, outcome, nil
		}
	}

	params := domain.NewParameterSet(normalized, req.Flags, req.Selections)

	score, err := EvaluateScore(calc, params)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluating %s: %w", calc.ID, err)
	}

	bands := calc.Bands
	if calc.SelectBands != nil {
		bands = calc.SelectBands(params)
	}

	band, err := Classify(score.Value, bands)
	if err != nil {
		// Band gaps are configuration defects; fail loudly.
		return nil, nil, fmt.Errorf("classifying %s score %v: %w", calc.ID, score.Value, err)
	}

	interp := Resolve(band, score)
	result := Compose(calc, score, band, interp, outcome.Warnings())

	if e.cache != nil {
		e.cache.Put(ctx, RequestKey(req), result)
	}

	fields := logrus.Fields{
		"calculator": calc.ID,
		"score":      score.Display,
		"band":       band.Label,
		"warnings":   len(result.Warnings),
		"elapsed":    time.Since(start),
	}
	for k, v := range band.Severity.LogFields() {
		fields[k] = v
	}
	e.logger.WithFields(fields).Info("Calculation completed")

	return result, outcome, nil
}

// RequestKey derives a stable cache key from a compute request. Inputs are
// canonicalized (sorted by name) before hashing so equal requests hash
// equally regardless of field order.
func RequestKey(req *domain.ComputeRequest) string {
	var b strings.Builder
	b.WriteString(req.CalculatorID)
	b.WriteByte('|')

	values := make([]domain.ParameterValue, len(req.Values))
	copy(values, req.Values)
	sort.Slice(values, func(i, j int) bool { return values[i].Name < values[j].Name })
	for _, v := range values {
		b.WriteString(v.Name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
		b.WriteByte(':')
		b.WriteString(v.Unit)
		b.WriteByte(';')
	}
	b.WriteByte('|')

	flags := make([]string, 0, len(req.Flags))
	for name := range req.Flags {
		flags = append(flags, name)
	}
	sort.Strings(flags)
	for _, name := range flags {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatBool(req.Flags[name]))
		b.WriteByte(';')
	}
	b.WriteByte('|')

	selections := make([]string, 0, len(req.Selections))
	for id := range req.Selections {
		selections = append(selections, id)
	}
	sort.Strings(selections)
	for _, id := range selections {
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(req.Selections[id]))
		b.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
