package scoped

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client is the HTTP client shared by all adapter operations. It issues
// exactly one request per call: no retries, no caching, transport-default
// timeouts. Sequencing across concurrent calls is the caller's concern.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOptions configures transport-level behavior of a Client.
type ClientOptions struct {
	// Insecure skips TLS certificate verification.
	Insecure bool
	// CACert is an optional PEM bundle to trust instead of the system pool.
	CACert string
}

// NewClient creates a Client for the settings backend at baseURL. token may
// be empty, in which case requests go out unauthenticated.
func NewClient(baseURL, token string, opts ClientOptions) *Client {
	transport := &http.Transport{}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	} else if opts.CACert != "" {
		caCertPool := x509.NewCertPool()
		if caCertPool.AppendCertsFromPEM([]byte(opts.CACert)) {
			transport.TLSClientConfig = &tls.Config{RootCAs: caCertPool}
		}
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Re-apply the bearer token on redirects
				if len(via) > 0 && token != "" {
					req.Header.Set("Authorization", "Bearer "+token)
				}
				return nil
			},
		},
	}
}

func (c *Client) newRequest(method, path string, params url.Values, payload any) (*http.Request, *Error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, NormalizeErr(fmt.Errorf("marshaling body: %w", err), http.StatusInternalServerError)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, bodyReader)
	if err != nil {
		return nil, NormalizeErr(fmt.Errorf("creating request: %w", err), http.StatusInternalServerError)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do executes the request and returns the response body and status.
// Non-2xx responses are normalized into an *Error at the actual status.
func (c *Client) do(req *http.Request) ([]byte, int, *Error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, NormalizeErr(fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err), http.StatusBadGateway)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, NormalizeErr(fmt.Errorf("reading response: %w", err), http.StatusBadGateway)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.StatusCode, NormalizeBody(resp.StatusCode, body)
	}
	return body, resp.StatusCode, nil
}

// Get performs a GET and returns the response body.
func (c *Client) Get(path string, params url.Values) ([]byte, *Error) {
	req, nerr := c.newRequest(http.MethodGet, path, params, nil)
	if nerr != nil {
		return nil, nerr
	}
	body, _, nerr := c.do(req)
	return body, nerr
}

// Post performs a POST with an optional JSON body.
func (c *Client) Post(path string, payload any) ([]byte, *Error) {
	req, nerr := c.newRequest(http.MethodPost, path, nil, payload)
	if nerr != nil {
		return nil, nerr
	}
	body, _, nerr := c.do(req)
	return body, nerr
}

// Put performs a PUT with a JSON body.
func (c *Client) Put(path string, payload any) ([]byte, *Error) {
	req, nerr := c.newRequest(http.MethodPut, path, nil, payload)
	if nerr != nil {
		return nil, nerr
	}
	body, _, nerr := c.do(req)
	return body, nerr
}

// Delete performs a DELETE. A 2xx with an empty body is success.
func (c *Client) Delete(path string) ([]byte, *Error) {
	req, nerr := c.newRequest(http.MethodDelete, path, nil, nil)
	if nerr != nil {
		return nil, nerr
	}
	body, _, nerr := c.do(req)
	return body, nerr
}
