package romm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/romdeck/romdeck/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	uploadTimeout  = 5 * time.Minute
	userAgent      = "Romdeck/1.0"
)

// APIError is a non-2xx response from the server. Detail carries the server's
// own message when the body had one; Status is the HTTP status text.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
}

// Error returns the most specific message available: server detail, then
// HTTP status text, then a generic fallback.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status != "" {
		return e.Status
	}
	return "unable to fetch data from the server"
}

// Client implements domain.GalleryClient and domain.AssetClient against a
// RomM-style REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	uploader   *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		uploader: &http.Client{
			Timeout: uploadTimeout,
		},
		logger: logger,
	}
}

// SetToken updates the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// doRequest performs an authenticated HTTP request and returns the body
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	client := c.httpClient
	if body != nil {
		client = c.uploader
	}

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrItemNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("api request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, newAPIError(resp, respBody)
	}

	return respBody, nil
}

// newAPIError extracts the server detail message from an error body
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	var dto errorDTO
	if err := json.Unmarshal(body, &dto); err == nil {
		apiErr.Detail = dto.Detail
	}
	return apiErr
}

// GetPlatforms returns all platforms known to the server
func (c *Client) GetPlatforms(ctx context.Context) ([]domain.Platform, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/platforms", nil, nil, "")
	if err != nil {
		return nil, err
	}

	var dtos []platformDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse platforms: %w", err)
	}

	return MapPlatforms(dtos), nil
}

// GetRoms returns one page of roms for a platform. An absent next_page token
// in the response maps to domain.CursorDone.
func (c *Client) GetRoms(ctx context.Context, platformID int, cursor domain.Cursor, searchTerm string, limit int) (domain.RomPage, error) {
	query := url.Values{}
	query.Set("platform_id", strconv.Itoa(platformID))
	if cursor.Started() && !cursor.Exhausted() {
		query.Set("cursor", string(cursor))
	}
	if searchTerm != "" {
		query.Set("search_term", searchTerm)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/roms", query, nil, "")
	if err != nil {
		return domain.RomPage{}, err
	}

	var page romPageDTO
	if err := json.Unmarshal(body, &page); err != nil {
		return domain.RomPage{}, fmt.Errorf("failed to parse rom page: %w", err)
	}

	next := domain.CursorDone
	if page.NextPage != "" {
		next = domain.Cursor(page.NextPage)
	}

	return domain.RomPage{Roms: MapRoms(page.Items), NextCursor: next}, nil
}

// GetRom returns full details for a single rom
func (c *Client) GetRom(ctx context.Context, id int) (*domain.Rom, error) {
	path := fmt.Sprintf("/api/roms/%d", id)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, err
	}

	var dto romDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse rom: %w", err)
	}

	rom := MapRom(dto)
	return &rom, nil
}

// UpdateRom updates a rom's editable metadata
func (c *Client) UpdateRom(ctx context.Context, rom domain.Rom) (*domain.Rom, error) {
	payload, err := json.Marshal(map[string]any{
		"name":      rom.Name,
		"file_name": rom.FileName,
		"summary":   rom.Summary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode rom update: %w", err)
	}

	path := fmt.Sprintf("/api/roms/%d", rom.ID)
	body, err := c.doRequest(ctx, http.MethodPut, path, nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	var dto romDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse rom: %w", err)
	}

	updated := MapRom(dto)
	return &updated, nil
}

// DeleteRoms removes roms from the library, optionally deleting files on disk
func (c *Client) DeleteRoms(ctx context.Context, ids []int, deleteFromFS bool) error {
	payload, err := json.Marshal(map[string]any{
		"roms":           ids,
		"delete_from_fs": deleteFromFS,
	})
	if err != nil {
		return fmt.Errorf("failed to encode delete request: %w", err)
	}

	_, err = c.doRequest(ctx, http.MethodPost, "/api/roms/delete", nil, bytes.NewReader(payload), "application/json")
	return err
}

// UploadRom uploads a rom file to a platform
func (c *Client) UploadRom(ctx context.Context, platformID int, fileName string, data []byte) error {
	body, contentType, err := multipartFile("roms", fileName, data)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("platform_id", strconv.Itoa(platformID))

	_, err = c.doRequest(ctx, http.MethodPost, "/api/roms/upload", query, body, contentType)
	return err
}

// DownloadRom fetches the rom's binary content
func (c *Client) DownloadRom(ctx context.Context, rom domain.Rom) ([]byte, error) {
	path := fmt.Sprintf("/api/roms/%d/content/%s", rom.ID, url.PathEscape(rom.FileName))
	return c.doRequest(ctx, http.MethodGet, path, nil, nil, "")
}

// assetEndpoint maps an asset kind to its collection path
func assetEndpoint(kind domain.AssetKind) string {
	if kind == domain.AssetState {
		return "/api/states"
	}
	return "/api/saves"
}

// UploadAsset creates a new save or state record from binary content. The
// server responds with the rom's full asset collection for the kind, sorted
// by ID ascending; callers take the last record as the newly created one.
func (c *Client) UploadAsset(ctx context.Context, kind domain.AssetKind, romID int, fileName string, data []byte) ([]domain.Asset, error) {
	body, contentType, err := multipartFile(kind.String()+"s", fileName, data)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("rom_id", strconv.Itoa(romID))

	respBody, err := c.doRequest(ctx, http.MethodPost, assetEndpoint(kind), query, body, contentType)
	if err != nil {
		return nil, err
	}

	var dtos []assetDTO
	if err := json.Unmarshal(respBody, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse uploaded %s: %w", kind, err)
	}
	if len(dtos) > 1 {
		// Newest-record selection assumes the server keeps the batch in
		// ID-ascending order; flag when that assumption is exercised.
		c.logger.Warn("asset upload returned batch, selecting last record",
			"kind", kind.String(), "count", len(dtos))
	}

	return MapAssets(dtos), nil
}

// UpdateAsset replaces the content of an existing save or state record
func (c *Client) UpdateAsset(ctx context.Context, kind domain.AssetKind, asset domain.Asset, data []byte) (domain.Asset, error) {
	body, contentType, err := multipartFile("file", asset.FileName, data)
	if err != nil {
		return domain.Asset{}, err
	}

	path := fmt.Sprintf("%s/%d", assetEndpoint(kind), asset.ID)
	respBody, err := c.doRequest(ctx, http.MethodPut, path, nil, body, contentType)
	if err != nil {
		return domain.Asset{}, err
	}

	var dto assetDTO
	if err := json.Unmarshal(respBody, &dto); err != nil {
		return domain.Asset{}, fmt.Errorf("failed to parse updated %s: %w", kind, err)
	}

	return MapAsset(dto), nil
}

// DownloadAsset fetches the binary content of a remote record by its
// server-relative download path
func (c *Client) DownloadAsset(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil, nil, "")
}

// UploadScreenshot creates a screenshot record attached to a rom
func (c *Client) UploadScreenshot(ctx context.Context, romID int, fileName string, data []byte) (domain.Asset, error) {
	body, contentType, err := multipartFile("screenshots", fileName, data)
	if err != nil {
		return domain.Asset{}, err
	}

	query := url.Values{}
	query.Set("rom_id", strconv.Itoa(romID))

	respBody, err := c.doRequest(ctx, http.MethodPost, "/api/screenshots", query, body, contentType)
	if err != nil {
		return domain.Asset{}, err
	}

	var dto assetDTO
	if err := json.Unmarshal(respBody, &dto); err != nil {
		return domain.Asset{}, fmt.Errorf("failed to parse screenshot: %w", err)
	}

	return MapAsset(dto), nil
}

// UpdateScreenshot replaces an existing screenshot record's content
func (c *Client) UpdateScreenshot(ctx context.Context, screenshot domain.Asset, data []byte) (domain.Asset, error) {
	body, contentType, err := multipartFile("file", screenshot.FileName, data)
	if err != nil {
		return domain.Asset{}, err
	}

	path := fmt.Sprintf("/api/screenshots/%d", screenshot.ID)
	respBody, err := c.doRequest(ctx, http.MethodPut, path, nil, body, contentType)
	if err != nil {
		return domain.Asset{}, err
	}

	var dto assetDTO
	if err := json.Unmarshal(respBody, &dto); err != nil {
		return domain.Asset{}, fmt.Errorf("failed to parse screenshot: %w", err)
	}

	return MapAsset(dto), nil
}

// multipartFile builds a single-file multipart body
func multipartFile(field, fileName string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
