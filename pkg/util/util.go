package util

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
)

type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

type RestyOptions struct {
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	// RetryPolicy replaces the retryablehttp default policy when set.
	RetryPolicy resty.RetryConditionFunc
}

func defaultRestyOptions() RestyOptions {
	return RestyOptions{
		Timeout:      10 * time.Second,
		RetryCount:   3,
		RetryWait:    100 * time.Millisecond,
		RetryMaxWait: 2 * time.Second,
		RetryPolicy:  DefaultRetryPolicy,
	}
}

type RestyOption func(*RestyOptions)

func WithTimeout(d time.Duration) RestyOption {
	return func(o *RestyOptions) { o.Timeout = d }
}

func WithRetry(count int, wait, maxWait time.Duration) RestyOption {
	return func(o *RestyOptions) {
		o.RetryCount = count
		o.RetryWait = wait
		o.RetryMaxWait = maxWait
	}
}

func WithRetryPolicy(fn resty.RetryConditionFunc) RestyOption {
	return func(o *RestyOptions) { o.RetryPolicy = fn }
}

// DefaultRetryPolicy defers to retryablehttp: connection errors, 429 and 5xx
// except 501 are retried.
func DefaultRetryPolicy(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil {
		return err != nil
	}
	retry, _ := retryablehttp.DefaultRetryPolicy(r.Request.Context(), r.RawResponse, err)
	return retry
}

func NewRestyClient(opts ...RestyOption) *resty.Client {
	o := defaultRestyOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := resty.
		New().
		SetRetryCount(o.RetryCount).
		SetRetryWaitTime(o.RetryWait).
		SetRetryMaxWaitTime(o.RetryMaxWait).
		SetLogger(nopLogger{}).
		SetTimeout(o.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		AddRetryCondition(o.RetryPolicy)
	c.JSONMarshal = json.Marshal
	c.JSONUnmarshal = json.Unmarshal
	return c
}

// IsClientError reports a 4xx status.
func IsClientError(code int) bool {
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

func GetHistogramVec(name string, labels ...string) (*prometheus.HistogramVec, error) {
	metrics := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: name,
		Buckets: []float64{
			0.0005,
			0.001, // 1ms
			0.002,
			0.005,
			0.01, // 10ms
			0.02,
			0.05,
			0.1, // 100 ms
			0.2,
			0.5,
			1.0, // 1s
			2.0,
			5.0,
			10.0, // 10s
		},
	}, labels)
	if err := prometheus.Register(metrics); err != nil {
		var registeredErr prometheus.AlreadyRegisteredError
		if ok := errors.As(err, &registeredErr); ok {
			metrics, ok := registeredErr.ExistingCollector.(*prometheus.HistogramVec)
			if ok {
				return metrics, nil
			}
		}
		return nil, fmt.Errorf("register: %w %T", err, err)
	}

	return metrics, nil
}
