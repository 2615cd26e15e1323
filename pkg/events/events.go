/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package events publishes discovery run lifecycle events to NATS JetStream
// as CloudEvents.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	eventSource = "netscanner/discovery"
	eventType   = "com.carverauto.netscanner.discovery."
)

// CloudEvent is the CloudEvents 1.0 envelope of a run event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// streamPublisher is the part of jetstream.JetStream used for publishing.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher sends run events on <prefix>.discovery.<state>.
type Publisher struct {
	js     streamPublisher
	nc     *nats.Conn
	prefix string
	logger logger.Logger
}

// NewPublisher wraps an existing JetStream context.
func NewPublisher(js jetstream.JetStream, prefix string, log logger.Logger) *Publisher {
	return newPublisher(js, prefix, log)
}

func newPublisher(js streamPublisher, prefix string, log logger.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &Publisher{js: js, prefix: prefix, logger: log}
}

// Subject returns the subject events for state are published on.
func Subject(prefix, state string) string {
	return fmt.Sprintf("%s.discovery.%s", prefix, state)
}

// PublishRun publishes one run event.
func (p *Publisher) PublishRun(ctx context.Context, event *models.RunEvent) error {
	ts := event.Timestamp

	envelope := CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType + event.State,
		DataContentType: "application/json",
		Subject:         Subject(p.prefix, event.State),
		Time:            &ts,
		Data:            event,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	ack, err := p.js.Publish(ctx, envelope.Subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	p.logger.Debug().
		Str("subject", envelope.Subject).
		Str("run_id", event.RunID).
		Uint64("seq", ack.Sequence).
		Msg("Published run event")

	return nil
}

// Close drains the underlying connection when the publisher owns one.
func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}

	return p.nc.Drain()
}
