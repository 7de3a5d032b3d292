package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/metrics"
	"github.com/ops-agent/backend/pkg/circuitbreaker"
	"github.com/ops-agent/backend/pkg/logger"
	"github.com/ops-agent/backend/pkg/retry"
)

// APIError is an error reported by the monitoring backend itself, as
// opposed to a transport failure.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zabbix api error %d: %s: %s", e.Code, e.Message, e.Data)
}

// Client talks JSON-RPC 2.0 to a Zabbix server. It resolves host names
// to backend identifiers and executes RPC descriptors produced by the
// query engine.
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config

	requestID atomic.Int64

	mu         sync.RWMutex
	authToken  string
	apiVersion string
}

// Host is the subset of host fields the assistant works with.
type Host struct {
	HostID string `json:"hostid"`
	Host   string `json:"host"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func NewClient(url, username, password string, timeoutSec int) *Client {
	if timeoutSec <= 0 {
		timeoutSec = 10
	}

	cb := circuitbreaker.NewCircuitBreaker("zabbix", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryCfg := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	return &Client{
		url:        url,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		cb:         cb,
		retryCfg:   retryCfg,
	}
}

// Login authenticates against the backend and caches the session token.
func (c *Client) Login(ctx context.Context) error {
	result, err := c.call(ctx, "user.login", map[string]interface{}{
		"username": c.username,
		"password": c.password,
	}, false)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	var token string
	if err := json.Unmarshal(result, &token); err != nil {
		return fmt.Errorf("unexpected login response: %w", err)
	}

	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()

	version, err := c.fetchAPIVersion(ctx)
	if err != nil {
		logger.Warn("Failed to fetch API version", zap.Error(err))
		version = "unknown"
	}

	c.mu.Lock()
	c.apiVersion = version
	c.mu.Unlock()

	logger.Info("Authenticated with Zabbix API", zap.String("version", version))
	return nil
}

// APIVersion returns the backend version learned at login.
func (c *Client) APIVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiVersion
}

func (c *Client) fetchAPIVersion(ctx context.Context) (string, error) {
	result, err := c.call(ctx, "apiinfo.version", map[string]interface{}{}, false)
	if err != nil {
		return "", err
	}

	var version string
	if err := json.Unmarshal(result, &version); err != nil {
		return "", fmt.Errorf("unexpected version response: %w", err)
	}
	return version, nil
}

// Call executes an arbitrary API method with the session token attached.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	return c.call(ctx, method, params, true)
}

func (c *Client) call(ctx context.Context, method string, params interface{}, authRequired bool) (json.RawMessage, error) {
	envelope := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      c.requestID.Add(1),
	}

	if authRequired {
		c.mu.RLock()
		token := c.authToken
		c.mu.RUnlock()
		if token == "" {
			return nil, fmt.Errorf("not authenticated: call Login first")
		}
		envelope["auth"] = token
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result json.RawMessage

	err = c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryCfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("failed to build request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json-rpc")

			logger.Debug("Calling Zabbix API", zap.String("method", method))

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach zabbix api: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("zabbix api returned status %d", resp.StatusCode)
			}

			var rpcResp struct {
				Result json.RawMessage `json:"result"`
				Error  *APIError       `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			if rpcResp.Error != nil {
				return rpcResp.Error
			}

			result = rpcResp.Result
			return nil
		})
	})
	if err != nil {
		metrics.ZabbixCallsTotal.WithLabelValues(method, "error").Inc()
		return nil, err
	}

	metrics.ZabbixCallsTotal.WithLabelValues(method, "success").Inc()
	return result, nil
}

// GetHosts lists monitored hosts.
func (c *Client) GetHosts(ctx context.Context) ([]Host, error) {
	result, err := c.Call(ctx, "host.get", map[string]interface{}{
		"output": []string{"hostid", "host", "name", "status"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get hosts: %w", err)
	}

	var hosts []Host
	if err := json.Unmarshal(result, &hosts); err != nil {
		return nil, fmt.Errorf("failed to decode hosts: %w", err)
	}
	return hosts, nil
}

// ResolveHostIDs resolves a host name or technical hostname to backend
// identifiers. The lookup tries the technical name first, then the
// visible name, matching the backend's own precedence.
func (c *Client) ResolveHostIDs(ctx context.Context, name string) ([]string, error) {
	for _, field := range []string{"host", "name"} {
		result, err := c.Call(ctx, "host.get", map[string]interface{}{
			"output": []string{"hostid"},
			"filter": map[string]interface{}{field: name},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve host %q: %w", name, err)
		}

		var hosts []Host
		if err := json.Unmarshal(result, &hosts); err != nil {
			return nil, fmt.Errorf("failed to decode host lookup: %w", err)
		}
		if len(hosts) > 0 {
			ids := make([]string, 0, len(hosts))
			for _, h := range hosts {
				ids = append(ids, h.HostID)
			}
			return ids, nil
		}
	}

	return nil, nil
}

// GetProblems lists current problems, optionally narrowed to one host.
func (c *Client) GetProblems(ctx context.Context, host string) (json.RawMessage, error) {
	params := map[string]interface{}{
		"output":      "extend",
		"selectHosts": []string{"hostid", "name"},
		"recent":      true,
		"sortfield":   []string{"eventid"},
		"sortorder":   "DESC",
	}
	if host != "" {
		params["host"] = host
	}

	result, err := c.Call(ctx, "problem.get", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get problems: %w", err)
	}
	return result, nil
}
