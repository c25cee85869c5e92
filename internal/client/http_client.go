package client

import (
	"context"
	"fmt"
	"time"

	"holdings_checker/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodySnippetLen = 256

// jsonFetcher is the shared HTTP helper used by every upstream client. It
// performs a single JSON request with a per-call deadline and no retries;
// retry and failover policy belongs to callers.
type jsonFetcher struct {
	client         *fasthttp.Client
	defaultTimeout time.Duration
}

func newJSONFetcher(defaultTimeout time.Duration) *jsonFetcher {
	return &jsonFetcher{
		client:         &fasthttp.Client{},
		defaultTimeout: defaultTimeout,
	}
}

// FetchJSON issues one request and decodes a 2xx JSON body into out. A non-2xx
// answer yields *entity.UpstreamError with a snippet of the body. The ctx
// deadline wins over the default timeout when it expires sooner.
func (f *jsonFetcher) FetchJSON(ctx context.Context, method, url string, headers map[string]string, body []byte, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(f.defaultTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("failed to execute request to %s: %w", url, err)
	}

	rawBody := resp.Body()
	status := resp.StatusCode()
	if status < 200 || status > 299 {
		snippet := rawBody
		if len(snippet) > maxBodySnippetLen {
			snippet = snippet[:maxBodySnippetLen]
		}
		return &entity.UpstreamError{Status: status, BodySnippet: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", url, err)
	}
	return nil
}
