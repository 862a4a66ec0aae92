package e2etest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/reaksi/internal/errors"
)

// CSRFFieldName is the form field carrying the CSRF token.
const CSRFFieldName = "csrf_token"

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar so that the session and CSRF cookies are kept between requests.
func NewClient(url string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: plainHTTPJar{Jar: jar}},
		url:    url,
	}, nil
}

// plainHTTPJar stores Secure cookies as regular ones. The session and CSRF cookies are Secure, but the test server
// only speaks plain HTTP.
type plainHTTPJar struct {
	*cookiejar.Jar
}

func (j plainHTTPJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.Jar.SetCookies(u, cookies)
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		if resp, err := c.Get(ctx, urlPath); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, urlPath, nil, nil)
}

// Do sends a request with the given headers to the server.
func (c *Client) Do(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
	header http.Header,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("method", method), slog.String("path", urlPath))
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	return readDoc(resp)
}

// CSRFToken reads the CSRF token of the form with formActionURLPath on the page at formURLPath.
func (c *Client) CSRFToken(ctx context.Context, formURLPath, formActionURLPath string) (string, error) {
	doc, err := c.GetDoc(ctx, formURLPath)
	if err != nil {
		return "", errors.Wrap(err, "get document")
	}
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	csrfToken, ok := doc.Find(formSelector).Find(fmt.Sprintf("input[name=%s]", CSRFFieldName)).Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form", slog.String("form", formSelector))
	}
	return csrfToken, nil
}

// PostForm fills in the form with formActionURLPath found at formURLPath and submits values with the CSRF token.
// Redirects are followed so the response is the final one.
func (c *Client) PostForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
) (*http.Response, error) {
	csrfToken, err := c.CSRFToken(ctx, formURLPath, formActionURLPath)
	if err != nil {
		return nil, errors.Wrap(err, "extract CSRF token")
	}
	formData := neturl.Values{}
	for key, vs := range values {
		formData[key] = append([]string(nil), vs...)
	}
	formData.Set(CSRFFieldName, csrfToken)

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.Do(ctx, http.MethodPost, formActionURLPath, strings.NewReader(formData.Encode()), header)
	if err != nil {
		return nil, errors.Wrap(err, "post form")
	}
	return resp, nil
}

// SubmitForm is [Client.PostForm] that expects a 200 OK HTML response.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
) (*goquery.Document, error) {
	resp, err := c.PostForm(ctx, formURLPath, formActionURLPath, values)
	if err != nil {
		return nil, err
	}
	return readDoc(resp)
}

func readDoc(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode),
			slog.String("url", resp.Request.URL.String()))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}
