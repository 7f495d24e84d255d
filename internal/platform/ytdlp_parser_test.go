package platform

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewYTDLPParserService(t *testing.T) {
	service := NewYTDLPParserService()
	if service == nil {
		t.Fatal("service should not be nil")
	}
	if service.timeout != DefaultParseTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultParseTimeout, service.timeout)
	}
}

func TestSetTimeout(t *testing.T) {
	tests := []struct {
		name            string
		newTimeout      time.Duration
		expectedTimeout time.Duration
	}{
		{"should set new timeout", 30 * time.Second, 30 * time.Second},
		{"should set zero timeout", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &YTDLPParserService{timeout: DefaultParseTimeout}
			service.SetTimeout(tt.newTimeout)
			if service.timeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, service.timeout)
			}
		})
	}
}

func TestParsePlaylist_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		errorMsg string
	}{
		{"invalid URL without playlist parameter", "https://www.youtube.com/watch?v=VIDEO_ID", "invalid playlist URL"},
		{"URL with empty playlist ID", "https://www.youtube.com/watch?v=VIDEO_ID&list=", "could not extract playlist ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewYTDLPParserService()
			result, err := service.ParsePlaylist(context.Background(), tt.url)
			if err == nil {
				t.Fatalf("expected error, got playlist %+v", result)
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error to contain %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}
