// Copyright 2026 The eliza-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package observability wires OpenTelemetry metrics and tracing for the
// agent runtime. Metrics are exported in Prometheus format; tracing writes
// spans to stdout when debug mode is on.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Metrics records runtime-level counters and durations for one agent.
type Metrics interface {
	RecordMessage(ctx context.Context, duration time.Duration, err error)
	RecordAction(ctx context.Context, action string, duration time.Duration, err error)
	RecordModelCall(ctx context.Context, modelType string, duration time.Duration, inputTokens, outputTokens int, err error)
	RecordProviderFetch(ctx context.Context, provider string, duration time.Duration, err error)
}

// OTelMetrics implements Metrics on OpenTelemetry instruments. A zero value
// is a safe no-op.
type OTelMetrics struct {
	messageDuration metric.Float64Histogram
	messagesTotal   metric.Int64Counter
	messageErrors   metric.Int64Counter

	actionDuration metric.Float64Histogram
	actionsTotal   metric.Int64Counter
	actionErrors   metric.Int64Counter

	modelDuration     metric.Float64Histogram
	modelInputTokens  metric.Int64Counter
	modelOutputTokens metric.Int64Counter
	modelErrors       metric.Int64Counter

	providerDuration metric.Float64Histogram
	providerErrors   metric.Int64Counter
}

// InitMetrics builds the Prometheus-backed meter provider and the runtime
// instrument set.
func InitMetrics(ctx context.Context, cfg MetricsConfig) (*OTelMetrics, error) {
	if !cfg.Enabled {
		return &OTelMetrics{}, nil
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
	)
	meter := meterProvider.Meter("eliza")

	m := &OTelMetrics{}

	if m.messageDuration, err = meter.Float64Histogram(
		"eliza_message_duration_seconds",
		metric.WithDescription("End-to-end message handling duration in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create message duration histogram: %w", err)
	}
	if m.messagesTotal, err = meter.Int64Counter(
		"eliza_messages_total",
		metric.WithDescription("Total messages handled"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messages counter: %w", err)
	}
	if m.messageErrors, err = meter.Int64Counter(
		"eliza_message_errors_total",
		metric.WithDescription("Total message handling errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create message errors counter: %w", err)
	}

	if m.actionDuration, err = meter.Float64Histogram(
		"eliza_action_duration_seconds",
		metric.WithDescription("Action execution duration in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create action duration histogram: %w", err)
	}
	if m.actionsTotal, err = meter.Int64Counter(
		"eliza_actions_total",
		metric.WithDescription("Total action executions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actions counter: %w", err)
	}
	if m.actionErrors, err = meter.Int64Counter(
		"eliza_action_errors_total",
		metric.WithDescription("Total action execution errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create action errors counter: %w", err)
	}

	if m.modelDuration, err = meter.Float64Histogram(
		"eliza_model_call_duration_seconds",
		metric.WithDescription("Model call duration in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model duration histogram: %w", err)
	}
	if m.modelInputTokens, err = meter.Int64Counter(
		"eliza_model_tokens_input_total",
		metric.WithDescription("Total input tokens sent to models"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model input tokens counter: %w", err)
	}
	if m.modelOutputTokens, err = meter.Int64Counter(
		"eliza_model_tokens_output_total",
		metric.WithDescription("Total output tokens from models"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model output tokens counter: %w", err)
	}
	if m.modelErrors, err = meter.Int64Counter(
		"eliza_model_errors_total",
		metric.WithDescription("Total model call errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model errors counter: %w", err)
	}

	if m.providerDuration, err = meter.Float64Histogram(
		"eliza_provider_fetch_duration_seconds",
		metric.WithDescription("Provider fetch duration in seconds"),
	); err != nil {
		return nil, fmt.Errorf("failed to create provider duration histogram: %w", err)
	}
	if m.providerErrors, err = meter.Int64Counter(
		"eliza_provider_errors_total",
		metric.WithDescription("Total provider fetch errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create provider errors counter: %w", err)
	}

	return m, nil
}

func (m *OTelMetrics) RecordMessage(ctx context.Context, duration time.Duration, err error) {
	if m == nil || m.messageDuration == nil {
		return
	}
	m.messageDuration.Record(ctx, duration.Seconds())
	m.messagesTotal.Add(ctx, 1)
	if err != nil {
		m.messageErrors.Add(ctx, 1)
	}
}

func (m *OTelMetrics) RecordAction(ctx context.Context, action string, duration time.Duration, err error) {
	if m == nil || m.actionDuration == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("action", action))
	m.actionDuration.Record(ctx, duration.Seconds(), attrs)
	m.actionsTotal.Add(ctx, 1, attrs)
	if err != nil {
		m.actionErrors.Add(ctx, 1, attrs)
	}
}

func (m *OTelMetrics) RecordModelCall(ctx context.Context, modelType string, duration time.Duration, inputTokens, outputTokens int, err error) {
	if m == nil || m.modelDuration == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("model_type", modelType))
	m.modelDuration.Record(ctx, duration.Seconds(), attrs)
	m.modelInputTokens.Add(ctx, int64(inputTokens), attrs)
	m.modelOutputTokens.Add(ctx, int64(outputTokens), attrs)
	if err != nil {
		m.modelErrors.Add(ctx, 1, attrs)
	}
}

func (m *OTelMetrics) RecordProviderFetch(ctx context.Context, provider string, duration time.Duration, err error) {
	if m == nil || m.providerDuration == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	m.providerDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.providerErrors.Add(ctx, 1, attrs)
	}
}
