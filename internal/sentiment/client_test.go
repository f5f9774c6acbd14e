// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/remote"
)

func TestClassifyResponse_Sentiment(t *testing.T) {
	tests := []struct {
		name    string
		resp    classifyResponse
		want    recommend.Sentiment
		wantErr bool
	}{
		{"label", classifyResponse{Label: "positive"}, recommend.SentimentPositive, false},
		{"label case-insensitive", classifyResponse{Label: "Negative"}, recommend.SentimentNegative, false},
		{"label wins over scores", classifyResponse{Label: "neutral", Scores: []float64{0.9, 0.05, 0.05}}, recommend.SentimentNeutral, false},
		{"argmax negative", classifyResponse{Scores: []float64{0.7, 0.2, 0.1}}, recommend.SentimentNegative, false},
		{"argmax neutral", classifyResponse{Scores: []float64{0.2, 0.5, 0.3}}, recommend.SentimentNeutral, false},
		{"argmax positive", classifyResponse{Scores: []float64{0.1, 0.1, 0.8}}, recommend.SentimentPositive, false},
		{"tie takes first", classifyResponse{Scores: []float64{0.4, 0.4, 0.2}}, recommend.SentimentNegative, false},
		{"unknown label", classifyResponse{Label: "mixed"}, "", true},
		{"short scores", classifyResponse{Scores: []float64{0.5, 0.5}}, "", true},
		{"empty", classifyResponse{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resp.sentiment()
			if (err != nil) != tt.wantErr {
				t.Fatalf("sentiment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownLabel) {
				t.Errorf("error = %v, want ErrUnknownLabel", err)
			}
			if got != tt.want {
				t.Errorf("sentiment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			http.NotFound(w, r)
			return
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scores := []float64{0.1, 0.1, 0.8}
		if req.Text == "ужасный фильм" {
			scores = []float64{0.9, 0.05, 0.05}
		}
		_ = json.NewEncoder(w).Encode(classifyResponse{Scores: scores})
	}))
	defer srv.Close()

	c := NewClient(remote.New(remote.Config{Name: "sentiment-test", BaseURL: srv.URL}))

	tests := []struct {
		text string
		want recommend.Sentiment
	}{
		{"прекрасный фильм", recommend.SentimentPositive},
		{"ужасный фильм", recommend.SentimentNegative},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClient_ClassifyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(remote.New(remote.Config{Name: "sentiment-test", BaseURL: srv.URL}))
	if _, err := c.Classify(context.Background(), "текст"); err == nil {
		t.Error("Classify() error = nil, want failure")
	}
}
