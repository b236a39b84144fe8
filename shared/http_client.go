package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPClientFactory creates HTTP clients with pooled transports, cached per timeout
type HTTPClientFactory struct {
	defaultTimeout time.Duration
	mutex          sync.RWMutex
	clients        map[string]*http.Client
}

// NewHTTPClientFactory creates a new HTTP client factory
func NewHTTPClientFactory(defaultTimeout time.Duration) *HTTPClientFactory {
	return &HTTPClientFactory{
		defaultTimeout: defaultTimeout,
		clients:        make(map[string]*http.Client),
	}
}

// CreateOptimizedHTTPClient returns a cached client for timeout, creating it on first use
func (f *HTTPClientFactory) CreateOptimizedHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}

	clientKey := fmt.Sprintf("timeout_%d", timeout.Milliseconds())

	f.mutex.RLock()
	if client, exists := f.clients[clientKey]; exists {
		f.mutex.RUnlock()
		return client
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if client, exists := f.clients[clientKey]; exists {
		return client
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
	f.clients[clientKey] = client

	logrus.WithFields(logrus.Fields{
		"component":  "HTTPClientFactory",
		"timeout":    timeout,
		"client_key": clientKey,
	}).Debug("Created new HTTP client")

	return client
}

// CleanupAllClients closes idle connections of every cached client
func (f *HTTPClientFactory) CleanupAllClients() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for key, client := range f.clients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
		delete(f.clients, key)
	}

	logrus.WithField("component", "HTTPClientFactory").Debug("Cleaned up all cached HTTP clients")
}

// JSONRequest describes a single JSON call against a remote collaborator.
type JSONRequest struct {
	ServiceName string
	Operation   string
	Method      string
	URL         string
	Headers     map[string]string
	Body        interface{}
}

// DoJSON executes req and decodes a 2xx response into out. Failures come back
// already classified: transport errors are transient, non-2xx statuses go through
// ClassifyHTTPStatus and undecodable payloads are permanent. Context cancellation
// is returned unwrapped.
func DoJSON(ctx context.Context, client *http.Client, req JSONRequest, out interface{}) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return NewPermanentRemoteError(req.ServiceName, req.Operation, "failed to encode request body", err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return NewPermanentRemoteError(req.ServiceName, req.Operation, "failed to build request", err)
	}
	httpRequest.Header.Set("Accept", "application/json")
	if body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	for key, value := range req.Headers {
		httpRequest.Header.Set(key, value)
	}

	logger := logrus.WithFields(logrus.Fields{
		"component": "HTTPClient",
		"service":   req.ServiceName,
		"operation": req.Operation,
		"url":       req.URL,
	})

	response, err := client.Do(httpRequest)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WithError(err).Debug("HTTP request failed with transport error")
		return NewTransientRemoteError(req.ServiceName, req.Operation, "remote unreachable", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		logger.WithField("status_code", response.StatusCode).Debug("HTTP request failed with non-2xx status")
		return ClassifyHTTPStatus(req.ServiceName, req.Operation, response.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return NewPermanentRemoteError(req.ServiceName, req.Operation, "malformed response payload", err)
	}

	logger.WithField("status_code", response.StatusCode).Debug("HTTP request successful")
	return nil
}
