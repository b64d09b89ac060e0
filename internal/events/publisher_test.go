package events

import (
	"context"
	"testing"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerAnswer != nil {
				t.Error("expected nil answer writer when disabled")
			}
			if p.writerSummary != nil {
				t.Error("expected nil summary writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:      false,
		Brokers:      []string{"localhost:9092"},
		TopicAnswer:  "tutor.answer",
		TopicSummary: "tutor.summary",
		Principal:    "test-principal",
	}

	p := New(cfg)

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicAnswer != "tutor.answer" {
		t.Errorf("expected answer topic 'tutor.answer', got %s", p.topicAnswer)
	}
	if p.topicSummary != "tutor.summary" {
		t.Errorf("expected summary topic 'tutor.summary', got %s", p.topicSummary)
	}
}

func TestPublisher_PublishAnswer_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := map[string]string{"callSid": "CA123", "verdict": "CORRECT"}
	err := p.PublishAnswer(context.Background(), "CA123", event)

	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishSummary_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := map[string]any{"callSid": "CA123", "percentage": 80}
	err := p.PublishSummary(context.Background(), "CA123", event)

	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Channels cannot be marshalled.
	event := make(chan int)
	if err := p.PublishAnswer(context.Background(), "CA123", event); err == nil {
		t.Error("expected error for unmarshalable answer event")
	}
	if err := p.PublishSummary(context.Background(), "CA123", event); err == nil {
		t.Error("expected error for unmarshalable summary event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_NilWriters(t *testing.T) {
	p := &Publisher{}

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}
