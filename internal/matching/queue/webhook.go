package queue

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/resilience"
)

// WebhookPayload is the body posted to a job's webhook_url on completion,
// per §4.9/§6.4.
type WebhookPayload struct {
	JobID     string          `json:"job_id"`
	Status    Status          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// WebhookDeliverer signs and delivers webhook notifications with retry.
type WebhookDeliverer struct {
	client *http.Client
	secret string
	retry  resilience.RetryConfig
}

// NewWebhookDeliverer builds a deliverer; timeout bounds each individual
// attempt (default 10s per §4.9), maxRetries caps the shared
// resilience.Retry attempts, whose base delay is fixed at 1s.
func NewWebhookDeliverer(secret string, timeout time.Duration, maxRetries int) *WebhookDeliverer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDeliverer{
		client: &http.Client{Timeout: timeout},
		secret: secret,
		retry:  resilience.RetryConfig{MaxAttempts: maxRetries, BaseDelay: time.Second},
	}
}

// Deliver POSTs payload to url with an X-Signature header (HMAC-SHA256
// over the canonical, sorted-keys JSON encoding of payload), retrying on
// 5xx/timeout/network errors. Any 2xx is success; exhausted retries are
// returned to the caller to log and drop (§4.9: "a failed webhook never
// fails the job").
func (d *WebhookDeliverer) Deliver(ctx context.Context, url string, payload WebhookPayload) error {
	body, err := canonicalJSON(payload)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}
	signature := d.sign(body)

	return resilience.Retry(ctx, d.retry, func(ctx context.Context) error {
		return d.attempt(ctx, url, body, signature)
	})
}

func (d *WebhookDeliverer) attempt(ctx context.Context, url string, body []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature)
	req.Header.Set("User-Agent", "matching-service/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return &resilience.TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode >= 500 {
		return &resilience.TransientError{Err: fmt.Errorf("webhook: server error %d", resp.StatusCode)}
	}
	return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
}

func (d *WebhookDeliverer) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(d.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalJSON marshals v with object keys sorted, matching §4.9's
// "canonical (sorted-keys) JSON payload" requirement for the signature.
func canonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return marshalSorted(generic)
}

func marshalSorted(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case []interface{}:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			buf.Write(itemJSON)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return json.Marshal(val)
	}
}
