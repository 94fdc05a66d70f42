package lighter

import (
	"net/http"
	"time"

	"lighterprobe/logger"
)

// userAgentTransport stamps every request with the configured agent and logs
// the round trip at debug level.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
	log   *logger.Log
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	fields := logger.Fields{
		"method":      req.Method,
		"path":        req.URL.Path,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if resp != nil {
		fields["status"] = resp.StatusCode
	}
	entry := t.log.WithComponent("lighter_client").WithFields(fields)
	if err != nil {
		entry.WithError(err).Debug("request failed")
	} else {
		entry.Debug("request completed")
	}
	return resp, err
}
