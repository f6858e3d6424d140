package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dealerhub/dealerhub-backend/pkg/config"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("image host api key is required")
	errLoggerRequired = errors.New("image host logger is required")
)

// UploadResult is the subset of the imgbb response the service needs.
type UploadResult struct {
	URL        string
	DisplayURL string
	DeleteURL  string
	Width      int
	Height     int
	Size       int64
}

// Client uploads images to the imgbb-compatible hosting API.
type Client struct {
	baseURL        string
	apiKey         string
	expirationSecs int
	httpClient     *http.Client
	logger         *logger.Logger
}

// NewClient validates the credentials and builds the upload client.
func NewClient(ctx context.Context, cfg config.ImageHostConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.imgbb.com/1"
	}

	c := &Client{
		baseURL:        baseURL,
		apiKey:         apiKey,
		expirationSecs: cfg.ExpirationSecs,
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		logger:         logg,
	}

	logg.Info(ctx, "image host client initialized")
	return c, nil
}

// Upload sends the image bytes as a multipart form and returns the hosted URLs.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	encoded := base64.StdEncoding.EncodeToString(data)
	if err := writer.WriteField("image", encoded); err != nil {
		return nil, fmt.Errorf("writing image field: %w", err)
	}
	if filename != "" {
		if err := writer.WriteField("name", filename); err != nil {
			return nil, fmt.Errorf("writing name field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	endpoint, err := c.uploadURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image host unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading image host response")
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding image host response")
	}

	if resp.StatusCode != http.StatusOK || !parsed.Success {
		msg := parsed.ErrorMessage()
		if msg == "" {
			msg = fmt.Sprintf("image host returned status %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}

	return &UploadResult{
		URL:        parsed.Data.URL,
		DisplayURL: parsed.Data.DisplayURL,
		DeleteURL:  parsed.Data.DeleteURL,
		Width:      parsed.Data.Width.Int(),
		Height:     parsed.Data.Height.Int(),
		Size:       int64(parsed.Data.Size.Int()),
	}, nil
}

func (c *Client) uploadURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/upload")
	if err != nil {
		return "", fmt.Errorf("parsing image host url: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	if c.expirationSecs > 0 {
		q.Set("expiration", strconv.Itoa(c.expirationSecs))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL        string   `json:"url"`
		DisplayURL string   `json:"display_url"`
		DeleteURL  string   `json:"delete_url"`
		Width      looseInt `json:"width"`
		Height     looseInt `json:"height"`
		Size       looseInt `json:"size"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	StatusTxt string `json:"status_txt"`
}

func (r uploadResponse) ErrorMessage() string {
	if r.Error.Message != "" {
		return r.Error.Message
	}
	return r.StatusTxt
}

// looseInt tolerates the API returning numeric fields as either strings or numbers.
type looseInt int

func (l *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*l = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parsing numeric field %q: %w", s, err)
	}
	*l = looseInt(v)
	return nil
}

func (l looseInt) Int() int {
	return int(l)
}
