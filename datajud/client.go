// Package datajud looks up court processes in the public DataJud API.
package datajud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	// ErrEmptyProcessNumber is returned before any request for a blank number
	ErrEmptyProcessNumber = errors.New("enter a process number")
	// ErrMissingAPIKey is returned when DATAJUD_API_KEY is not set
	ErrMissingAPIKey = errors.New("DataJud API key is not configured (set DATAJUD_API_KEY)")
)

// APIError is a non-2xx answer from DataJud
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("DataJud API error (%d): %s", e.Status, e.Message)
}

// Named is an entry of a DataJud code table
type Named struct {
	Code int    `json:"codigo"`
	Name string `json:"nome"`
}

// Movement is one step of a process history
type Movement struct {
	Code     int    `json:"codigo"`
	Name     string `json:"nome"`
	DateTime string `json:"dataHora"`
}

// Process is the _source document of a search hit
type Process struct {
	Number      string     `json:"numeroProcesso"`
	Court       string     `json:"tribunal"`
	Degree      string     `json:"grau"`
	FiledAt     string     `json:"dataAjuizamento"`
	Class       Named      `json:"classe"`
	Subjects    []Named    `json:"assuntos"`
	Body        Named      `json:"orgaoJulgador"`
	Movements   []Movement `json:"movimentos"`
	LastUpdated string     `json:"dataHoraUltimaAtualizacao"`
}

// SearchResult is the decoded answer of a search
type SearchResult struct {
	Total     int
	Processes []Process
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source Process `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type errorResponse struct {
	Erro    string `json:"erro"`
	Message string `json:"message"`
	Error   any    `json:"error"`
}

func (e *errorResponse) text() string {
	switch {
	case e == nil:
		return ""
	case e.Erro != "":
		return e.Erro
	case e.Message != "":
		return e.Message
	case e.Error != nil:
		return fmt.Sprint(e.Error)
	default:
		return ""
	}
}

// Client queries one DataJud court endpoint
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	logger   *zap.Logger
}

// NewClient creates a client for endpoint, authenticating with apiKey
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logger.Named("datajud"),
	}
}

// NormalizeProcessNumber keeps only the digits of a CNJ process number
func NormalizeProcessNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)
}

// SearchProcess runs a match query on numeroProcesso
func (c *Client) SearchProcess(ctx context.Context, number string) (*SearchResult, error) {
	normalized := NormalizeProcessNumber(number)
	if normalized == "" {
		return nil, ErrEmptyProcessNumber
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"numeroProcesso": normalized,
			},
		},
	}

	var result searchResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "APIKey "+c.apiKey).
		SetBody(query).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("DataJud request failed: %w", err)
	}
	if resp.IsError() || !resp.IsSuccess() {
		msg := apiErr.text()
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{Status: resp.StatusCode(), Message: msg}
	}

	out := &SearchResult{Total: result.Hits.Total.Value}
	for _, hit := range result.Hits.Hits {
		out.Processes = append(out.Processes, hit.Source)
	}

	c.logger.Info("process search finished",
		zap.String("number", normalized),
		zap.Int("total", out.Total))
	return out, nil
}
