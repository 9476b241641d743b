package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/metrics"
	"github.com/abhisek/mathpath/internal/store"
)

// EventRecorder persists one row per LLM request.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call under its purpose: a log line, a
// latency sample, token and cost counters and a request log row.
type LoggingProvider struct {
	inner    Provider
	recorder EventRecorder
}

// WithLogging wraps a Provider with request logging. A nil recorder skips
// the request log.
func WithLogging(p Provider, recorder EventRecorder) Provider {
	return &LoggingProvider{inner: p, recorder: recorder}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()
	metrics.ObserveLLM(purpose.String(), start, err)

	log := logging.FromContext(ctx)
	if err != nil {
		log.Warn().Err(err).Stringer("purpose", purpose).Str("model", l.inner.ModelID()).
			Int64("latency_ms", latencyMs).Msg("llm request failed")
	} else {
		cost, priced := EstimateCost(resp.Model, resp.Usage)
		metrics.ObserveLLMUsage(purpose.String(), resp.Usage.InputTokens, resp.Usage.OutputTokens, cost)
		ev := log.Debug().Stringer("purpose", purpose).Str("model", resp.Model).
			Bool("structured", req.Structured()).
			Int("input_tokens", resp.Usage.InputTokens).Int("output_tokens", resp.Usage.OutputTokens).
			Int64("latency_ms", latencyMs)
		if priced {
			ev = ev.Float64("cost_usd", cost)
		}
		ev.Msg("llm request")
	}

	if l.recorder == nil {
		return resp, err
	}

	data := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     purpose.String(),
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = responseBody(req, resp)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The request log is best effort.
	if logErr := l.recorder.AppendLLMRequest(ctx, data); logErr != nil {
		log.Warn().Err(logErr).Stringer("purpose", purpose).Msg("record llm request event")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders a request the way `mathpath llm view` shows it.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema == nil {
		b.WriteString("[reply: text]\n")
		return b.String()
	}
	def, err := json.Marshal(req.Schema.Definition)
	if err == nil {
		fmt.Fprintf(&b, "[reply: %s]\n%s\n", req.Schema.Name, def)
	}
	return b.String()
}

// responseBody stores text replies unquoted so SVG and chat answers read
// naturally in the request log.
func responseBody(req Request, resp *Response) string {
	if req.Structured() {
		return string(resp.Content)
	}
	return resp.Text()
}
