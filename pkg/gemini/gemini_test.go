package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rest 429", err: &googleapi.Error{Code: http.StatusTooManyRequests}, want: true},
		{name: "wrapped rest 429", err: fmt.Errorf("generate: %w", &googleapi.Error{Code: http.StatusTooManyRequests}), want: true},
		{name: "rest 500", err: &googleapi.Error{Code: http.StatusInternalServerError}, want: false},
		{name: "grpc resource exhausted", err: status.Error(codes.ResourceExhausted, "quota"), want: true},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "down"), want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimit(tt.err))
		})
	}
}
