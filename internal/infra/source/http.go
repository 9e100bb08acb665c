package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"spice-theory/internal/domain"
)

const maxBankBytes = 4 << 20

// StatusError is returned when the bank endpoint answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// HTTP fetches banks with a plain GET. Bank ids are URLs, resolved against Base when relative.
type HTTP struct {
	Base   *url.URL
	client *http.Client
	log    *zap.Logger
}

func NewHTTP(base string, timeout time.Duration, log *zap.Logger) (*HTTP, error) {
	h := &HTTP{client: &http.Client{Timeout: timeout}, log: log}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse bank base url: %w", err)
		}
		h.Base = u
	}
	return h, nil
}

func (h *HTTP) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	target, err := h.resolve(bankID)
	if err != nil {
		return domain.Bank{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("bank fetch failed", zap.String("url", target), zap.Error(err))
		return domain.Bank{}, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.Warn("bank fetch rejected", zap.String("url", target), zap.Int("status", resp.StatusCode))
		statusErr := &StatusError{URL: target, Code: resp.StatusCode}
		if resp.StatusCode == http.StatusNotFound {
			return domain.Bank{}, fmt.Errorf("%w: %w", domain.ErrBankNotFound, statusErr)
		}
		return domain.Bank{}, statusErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBankBytes))
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read %s: %w", target, err)
	}
	format := FormatFor(req.URL.Path)
	if ct := resp.Header.Get("Content-Type"); ct == "application/yaml" || ct == "application/x-yaml" {
		format = FormatYAML
	}
	return Decode(data, format)
}

func (h *HTTP) resolve(bankID string) (string, error) {
	u, err := url.Parse(bankID)
	if err != nil {
		return "", fmt.Errorf("parse bank url %q: %w", bankID, err)
	}
	if h.Base != nil {
		u = h.Base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("bank url %q must be http or https", u.String())
	}
	return u.String(), nil
}
