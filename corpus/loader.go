// Package corpus loads the remotely hosted legal texts behind the specialized
// chat modes.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"legal-assistant/config"
	"legal-assistant/document"
	"legal-assistant/llm/parser"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Loader downloads a corpus PDF and extracts its text
type Loader struct {
	http     *resty.Client
	registry *parser.Registry
	cache    Cache
	logger   *zap.Logger
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(timeout time.Duration, registry *parser.Registry, c Cache, logger *zap.Logger) *Loader {
	if c == nil {
		c = NoopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/pdf").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)

	return &Loader{
		http:     client,
		registry: registry,
		cache:    c,
		logger:   logger.Named("corpus"),
	}
}

// retryCondition retries network errors and server errors
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return r != nil && r.StatusCode() >= 500
}

// Load returns the corpus as a document whose Text holds the extracted PDF text
func (l *Loader) Load(ctx context.Context, c config.Corpus) (*document.Document, error) {
	if c.URL == "" {
		return nil, &FetchError{Corpus: c.Name, Err: errors.New("no URL configured")}
	}

	log := l.logger.With(zap.String("corpus", c.Mode), zap.String("url", c.URL))
	key := CacheKey(c.URL)

	if text, ok, err := l.cache.Get(ctx, key); err != nil {
		log.Warn("corpus cache read failed", zap.Error(err))
	} else if ok && text != "" {
		log.Info("corpus loaded from cache")
		return l.newDocument(c, nil, text), nil
	}

	log.Info("downloading corpus")
	resp, err := l.http.R().SetContext(ctx).Get(c.URL)
	if err != nil {
		return nil, &FetchError{Corpus: c.Name, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{Corpus: c.Name, Err: fmt.Errorf("download returned %s", resp.Status())}
	}

	data := resp.Body()
	text, err := l.registry.Extract(ctx, data, parser.MIMETypePDF)
	if err != nil {
		return nil, &FetchError{Corpus: c.Name, Err: err}
	}
	if text == "" {
		return nil, &FetchError{Corpus: c.Name, Err: errors.New("the PDF contains no extractable text")}
	}

	if err := l.cache.Set(ctx, key, text); err != nil {
		log.Warn("corpus cache write failed", zap.Error(err))
	}

	log.Info("corpus loaded", zap.Int("bytes", len(data)), zap.Int("chars", len(text)))
	return l.newDocument(c, data, text), nil
}

func (l *Loader) newDocument(c config.Corpus, data []byte, text string) *document.Document {
	doc := document.New(document.File{
		Name:     path.Base(c.URL),
		MIMEType: parser.MIMETypePDF,
		Data:     data,
	})
	doc.Name = c.Name
	doc.Text = text
	return doc
}
