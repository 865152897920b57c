package api

import (
	"encoding/json"
	"fmt"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	Count int `json:"count"`
	Scans any `json:"scans"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// ParseAnalyzeRequest parses JSON bytes into an AnalyzeRequest.
func ParseAnalyzeRequest(data []byte) (*AnalyzeRequest, error) {
	var req AnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing analyze request: %w", err)
	}
	return &req, nil
}
