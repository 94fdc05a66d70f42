package lighter

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"lighterprobe/logger"
	"lighterprobe/models"
)

// APIClient is the handle every endpoint group issues requests through.
// It must be released with Close once the caller is done with it.
type APIClient struct {
	config    Configuration
	transport *http.Transport
	rest      *resty.Client
	log       *logger.Log

	closeOnce sync.Once
	closed    atomic.Bool
}

// dialKeepAlive matches http.DefaultTransport.
const dialKeepAlive = 30 * time.Second

// newDialer bounds connection setup by the request timeout.
func newDialer(cfg Configuration) *net.Dialer {
	return &net.Dialer{Timeout: cfg.Timeout, KeepAlive: dialKeepAlive}
}

// resultCoder is satisfied by every response type through models.ResultCode.
type resultCoder interface {
	Result() models.ResultCode
}

// NewAPIClient binds cfg to a new HTTP client. No connection is opened until
// the first request.
func NewAPIClient(cfg Configuration) *APIClient {
	log := logger.GetLogger()

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         newDialer(cfg).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	rest := resty.New().
		SetBaseURL(cfg.Host).
		SetTimeout(cfg.Timeout).
		SetTransport(userAgentTransport{agent: cfg.UserAgent, base: transport, log: log}).
		SetHeader("Accept", "application/json")

	log.WithComponent("lighter_client").WithFields(logger.Fields{
		"host":               cfg.Host,
		"timeout":            cfg.Timeout.String(),
		"max_idle_conns":     cfg.MaxIdleConns,
		"max_conns_per_host": cfg.MaxConnsPerHost,
	}).Debug("lighter client initialized")

	return &APIClient{
		config:    cfg,
		transport: transport,
		rest:      rest,
		log:       log,
	}
}

// Configuration returns the values the client was bound to.
func (c *APIClient) Configuration() Configuration {
	return c.config
}

// Info returns the platform-info endpoint group.
func (c *APIClient) Info() *InfoAPI { return NewInfoAPI(c) }

// Order returns the order-book endpoint group.
func (c *APIClient) Order() *OrderAPI { return NewOrderAPI(c) }

// Block returns the block endpoint group.
func (c *APIClient) Block() *BlockAPI { return NewBlockAPI(c) }

// Close drops pooled connections. Only the first call has any effect and
// requests issued afterwards fail with ErrClientClosed.
func (c *APIClient) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.transport.CloseIdleConnections()
		c.log.WithComponent("lighter_client").WithFields(logger.Fields{"host": c.config.Host}).Debug("lighter client closed")
	})
	return nil
}

// Closed reports whether Close has been called.
func (c *APIClient) Closed() bool {
	return c.closed.Load()
}

// get issues a GET against path and decodes the body into out.
func (c *APIClient) get(ctx context.Context, path string, params map[string]string, out resultCoder) error {
	if c.closed.Load() {
		return errors.Wrapf(ErrClientClosed, "GET %s", path)
	}

	req := c.rest.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}

	body := resp.Body()
	if resp.IsError() {
		apiErr := &APIError{Endpoint: path, StatusCode: resp.StatusCode(), Message: string(body)}
		var rc models.ResultCode
		if json.Unmarshal(body, &rc) == nil && rc.Code != 0 {
			apiErr.Code = rc.Code
			apiErr.Message = rc.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}

	if rc := out.Result(); rc.Code != 0 && rc.Code != models.CodeOK {
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode(), Code: rc.Code, Message: rc.Message}
	}
	return nil
}
