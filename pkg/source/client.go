package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphweave/pkg/buildinfo"
	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/graph"
	"github.com/matzehuels/graphweave/pkg/httputil"
	"github.com/matzehuels/graphweave/pkg/observability"
)

// Defaults for Options.
const (
	DefaultGraphPath   = "/graph"
	DefaultNodesPath   = "/nodes"
	DefaultNodePath    = "/nodes/{id}"
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
	DefaultAttempts    = 3
	DefaultBackoff     = time.Second
)

// maxBodySize caps a single response body.
const maxBodySize = 64 << 20

// Options configures a Client.
type Options struct {
	BaseURL string

	GraphPath string // Whole-graph endpoint
	NodesPath string // Node id list endpoint
	NodePath  string // Fragment endpoint; {id} is replaced by the escaped node id

	Concurrency int           // Parallel fragment requests
	Timeout     time.Duration // Per-request timeout
	Attempts    int           // Attempts per request for transient failures
	Backoff     time.Duration // Initial retry delay, doubled per retry

	Headers map[string]string // Sent with every request

	Cache   *httputil.Cache // Optional response cache
	Refresh bool            // Bypass cached entries

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.GraphPath == "" {
		o.GraphPath = DefaultGraphPath
	}
	if o.NodesPath == "" {
		o.NodesPath = DefaultNodesPath
	}
	if o.NodePath == "" {
		o.NodePath = DefaultNodePath
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Client fetches graph data from a graph service.
// A Client is safe for concurrent use.
type Client struct {
	base  *url.URL
	opts  Options
	http  *http.Client
	cache *httputil.Cache
}

// NewClient validates opts and returns a client.
func NewClient(opts Options) (*Client, error) {
	if err := errors.ValidateURL(opts.BaseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse base url")
	}
	opts.setDefaults()

	c := &Client{
		base: base,
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
	if opts.Cache != nil {
		c.cache = opts.Cache.Namespace(base.Host + ":")
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// FetchGraph fetches the whole graph and returns it as a single fragment.
// A payload without both arrays is reported as errors.ErrCodeMalformedInput.
func (c *Client) FetchGraph(ctx context.Context) ([]graph.Fragment, error) {
	var raw json.RawMessage
	if err := c.cached(ctx, c.endpoint(c.opts.GraphPath), &raw); err != nil {
		return nil, err
	}
	w, err := graph.DecodeWholeGraph(raw)
	if err != nil {
		return nil, err
	}
	return []graph.Fragment{w.Fragment()}, nil
}

// FetchNodeIDs fetches the list of node ids. Failures carry
// errors.ErrCodeAcquisition.
func (c *Client) FetchNodeIDs(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := c.cached(ctx, c.endpoint(c.opts.NodesPath), &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAcquisition, err, "list node ids")
	}
	ids, err := decodeIDs(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAcquisition, err, "list node ids")
	}
	return ids, nil
}

// FetchFragment fetches the fragment centred on one node.
func (c *Client) FetchFragment(ctx context.Context, id string) (graph.Fragment, error) {
	if err := errors.ValidateNodeID(id); err != nil {
		return graph.Fragment{}, err
	}
	path := strings.ReplaceAll(c.opts.NodePath, "{id}", url.PathEscape(id))
	var raw json.RawMessage
	if err := c.cached(ctx, c.endpoint(path), &raw); err != nil {
		return graph.Fragment{}, err
	}
	return graph.DecodeFragment(raw)
}

// FetchFragments lists the node ids and fetches all their fragments
// concurrently. The result keeps id order. Fragments that cannot be fetched
// are logged and left out. Cancelling ctx aborts the remaining requests and
// returns the context error.
func (c *Client) FetchFragments(ctx context.Context) ([]graph.Fragment, error) {
	ids, err := c.FetchNodeIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*graph.Fragment, len(ids))
	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			f, err := c.FetchFragment(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.opts.Logger.Warn("skipping fragment", "id", id, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = &f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fragments := make([]graph.Fragment, 0, len(ids))
	for _, f := range results {
		if f != nil {
			fragments = append(fragments, *f)
		}
	}
	c.opts.Logger.Debug("fetched fragments", "ids", len(ids), "fetched", len(fragments), "failed", failed)
	return fragments, nil
}

// =============================================================================
// Request plumbing
// =============================================================================

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base.String() + path
}

// cached decodes the response for url into v, consulting the cache first
// unless Refresh is set. Transient failures are retried.
func (c *Client) cached(ctx context.Context, url string, v *json.RawMessage) error {
	if c.cache != nil && !c.opts.Refresh {
		if ok, _ := c.cache.Get(url, v); ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	err := httputil.Retry(ctx, c.opts.Attempts, c.opts.Backoff, func() error {
		return c.get(ctx, url, v)
	})
	if err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.Set(url, v); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(*v))
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, v *json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, val := range c.opts.Headers {
		req.Header.Set(k, val)
	}

	hooks := observability.Source()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, rawURL); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	if !json.Valid(body) {
		return errors.New(errors.ErrCodeMalformedInput, "response from %s is not valid JSON", rawURL)
	}
	*v = body
	return nil
}

func checkStatus(code int, rawURL string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "GET %s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code)
	}
}

// decodeIDs accepts ["a", 1, ...] or [{"id": "a"}, ...].
func decodeIDs(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("node list must be a JSON array: %w", err)
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		var id graph.ID
		if err := json.Unmarshal(item, &id); err != nil {
			var obj struct {
				ID graph.ID `json:"id"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				return nil, fmt.Errorf("invalid node list entry %s", item)
			}
			id = obj.ID
		}
		if id != "" {
			ids = append(ids, string(id))
		}
	}
	return ids, nil
}
