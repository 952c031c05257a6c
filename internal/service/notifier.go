package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"morning_heating/internal/logger"
)

const unusedWebhookValue = "none"

// IFTTTNotifier fires an IFTTT Maker webhook event.
type IFTTTNotifier struct {
	client  *http.Client
	baseURL string
	event   string
	key     string
	log     *logger.Logger
}

func NewIFTTTNotifier(client *http.Client, baseURL, event, key string, log *logger.Logger) *IFTTTNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &IFTTTNotifier{client: client, baseURL: baseURL, event: event, key: key, log: log}
}

// Trigger posts the temperature as value1; value2 and value3 are placeholders.
func (n *IFTTTNotifier) Trigger(ctx context.Context, celsius float64) error {
	q := url.Values{}
	q.Set("value1", strconv.FormatFloat(celsius, 'f', -1, 64))
	q.Set("value2", unusedWebhookValue)
	q.Set("value3", unusedWebhookValue)

	endpoint := fmt.Sprintf("%s/trigger/%s/with/key/%s?%s",
		n.baseURL, url.PathEscape(n.event), url.PathEscape(n.key), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build ifttt request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("ifttt request: %w", err)
	}
	defer resp.Body.Close()

	n.log.Infow("called ifttt", "event", n.event, "status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ifttt request: unexpected status %s", resp.Status)
	}
	return nil
}

// MultiNotifier triggers every notifier in order and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Trigger(ctx context.Context, celsius float64) error {
	var errs []error
	for _, n := range m {
		if err := n.Trigger(ctx, celsius); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
