package cleaner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	errs "l10nminer/pkg/errors"
	"l10nminer/pkg/logger"
	"l10nminer/pkg/retry"
)

// maxProbeBytes caps how much of a response body is read for a probe.
// DecodeConfig only needs the header, but some hosts refuse range reads.
const maxProbeBytes = 8 << 20

// Prober downloads image URLs and checks that they decode to a real image
// strictly larger than the minimum size in both dimensions. Badges, emoji
// and avatars fall below the threshold.
type Prober struct {
	client  *http.Client
	retrier *retry.Retrier
	minSize int
	logger  logger.Logger
}

// NewProber creates an image prober. minSize is the exclusive lower bound
// in pixels for width and height.
func NewProber(minSize int, timeout time.Duration, log logger.Logger) *Prober {
	if log == nil {
		log = logger.GetLogger()
	}

	// Image hosts recover quickly, so the probe retries transient failures
	// on a short schedule instead of the search API's fixed cooldown.
	retrier := retry.NewRetrier(&retry.Config{
		MaxAttempts: 2,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:    500 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		RetryIf: func(err error) bool {
			switch errs.TypeOf(err) {
			case errs.ErrorTypeTransport, errs.ErrorTypeThrottled:
				return true
			}
			return false
		},
		Context: context.Background(),
		Logger:  log,
	})

	return &Prober{
		client:  &http.Client{Timeout: timeout},
		retrier: retrier,
		minSize: minSize,
		logger:  log,
	}
}

// Validate reports whether url serves a decodable image wider and taller
// than the minimum size. Any fetch or decode failure counts as invalid.
func (p *Prober) Validate(url string) bool {
	data, err := p.fetch(url)
	if err != nil {
		p.logger.DebugWithFields("Image probe failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return false
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		p.logger.DebugWithFields("Image decode failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return false
	}

	p.logger.DebugWithFields("Image probed", map[string]interface{}{
		"url":    url,
		"format": format,
		"width":  cfg.Width,
		"height": cfg.Height,
	})

	return cfg.Width > p.minSize && cfg.Height > p.minSize
}

func (p *Prober) fetch(url string) ([]byte, error) {
	var data []byte

	err := p.retrier.Do(func() error {
		resp, err := p.client.Get(url)
		if err != nil {
			return errs.NewTransport(fmt.Sprintf("image fetch failed: %v", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if errs.IsThrottleStatus(resp.StatusCode) {
				return errs.NewThrottled(resp.StatusCode, "image host throttled")
			}
			return errs.NewUpstream(resp.StatusCode, fmt.Sprintf("image fetch returned %d", resp.StatusCode))
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxProbeBytes))
		if err != nil {
			return errs.NewTransport(fmt.Sprintf("image read failed: %v", err))
		}
		return nil
	})

	return data, err
}
