package remote

import (
	"context"
	"fmt"
	"github.com/erni27/imcache"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/jx"
	"github.com/katana-project/artwork/internal/errors"
	"github.com/katana-project/artwork/internal/sync"
	"github.com/katana-project/artwork/item"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultCacheExp is the default item response cache expiration.
	DefaultCacheExp = 5 * time.Minute
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
	// MaxImageSize is the maximum size of a fetched image, in bytes.
	MaxImageSize = 32 << 20

	clientName    = "artwork"
	clientVersion = "0.1.0"
)

// Options are the configuration options of a Client.
type Options struct {
	// Token is the media server API token, sent with every request.
	Token string
	// UserID is the ID of the user to resolve items for, can be empty.
	UserID string
	// CacheExp is the item response cache expiration, defaults to DefaultCacheExp.
	CacheExp time.Duration
	// Timeout is the request timeout, defaults to DefaultTimeout. Ignored if HTTPClient is set.
	Timeout time.Duration
	// HTTPClient is the underlying HTTP client, can be nil.
	HTTPClient *http.Client
}

// Client is a media server API client resolving item metadata, safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	userID  string
	client  *http.Client
	exp     imcache.Expiration
	logger  *zap.Logger

	cache imcache.Cache[string, *item.Media]
	km    sync.KMutex[string]
}

// NewClient creates a media server API client.
func NewClient(baseURL string, opts Options, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base url")
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.Errorf("expected an absolute base url, got %s", baseURL)
	}

	cacheExp := opts.CacheExp
	if cacheExp <= 0 {
		cacheExp = DefaultCacheExp
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   opts.Token,
		userID:  opts.UserID,
		client:  client,
		exp:     imcache.WithExpiration(cacheExp),
		logger:  logger,
	}, nil
}

// Item fetches the metadata of an item, responses are cached.
// An *ErrNotFound is returned if the server does not know the item.
func (c *Client) Item(ctx context.Context, id string) (*item.Media, error) {
	if id == "" {
		return nil, errors.New("item id must not be empty")
	}
	if m, ok := c.cache.Get(id); ok {
		return m, nil
	}

	var m *item.Media
	err := c.km.Do(id, func() (err error) {
		var ok bool
		if m, ok = c.cache.Get(id); ok {
			return nil // fetched by a concurrent caller
		}

		m, err = c.fetchItem(ctx, id)
		if err != nil {
			return err
		}

		c.cache.Set(id, m, c.exp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Evict removes an item from the response cache.
func (c *Client) Evict(id string) {
	c.cache.Remove(id)
}

func (c *Client) itemURL(id string) string {
	if c.userID != "" {
		return fmt.Sprintf("%s/Users/%s/Items/%s", c.baseURL, url.PathEscape(c.userID), url.PathEscape(id))
	}

	return fmt.Sprintf("%s/Items/%s", c.baseURL, url.PathEscape(id))
}

func (c *Client) fetchItem(ctx context.Context, id string) (*item.Media, error) {
	itemURL := c.itemURL(id)

	res, err := c.get(ctx, itemURL, "application/json")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch item %s", id)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, &ErrNotFound{ID: id}
	}
	if err := checkStatus(res); err != nil {
		return nil, err
	}

	m, err := item.DecodeMedia(jx.Decode(res.Body, 4096))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode item %s", id)
	}

	c.logger.Debug("fetched item", zap.String("id", id), zap.String("url", itemURL))
	return m, nil
}

// Fetch downloads an image and detects its media type.
func (c *Client) Fetch(ctx context.Context, imageURL string) ([]byte, *mimetype.MIME, error) {
	res, err := c.get(ctx, imageURL, "image/*")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to fetch image")
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return nil, nil, err
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, MaxImageSize+1))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read image")
	}
	if len(data) > MaxImageSize {
		return nil, nil, errors.Errorf("image exceeds %d bytes", MaxImageSize)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, nil, errors.Errorf("unexpected media type %s, expected an image", mime.String())
	}

	c.logger.Debug(
		"fetched image",
		zap.String("url", imageURL),
		zap.String("type", mime.String()),
		zap.Int("size", len(data)),
	)
	return data, mime, nil
}

func (c *Client) get(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", c.authorization())

	return c.client.Do(req)
}

func (c *Client) authorization() string {
	auth := fmt.Sprintf(`MediaBrowser Client="%s", Version="%s"`, clientName, clientVersion)
	if c.token != "" {
		auth += fmt.Sprintf(`, Token="%s"`, c.token)
	}

	return auth
}

func checkStatus(res *http.Response) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &ErrUnexpectedStatus{URL: res.Request.URL.String(), Code: res.StatusCode}
	}

	return nil
}
