package services

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/observability"
	"go.uber.org/zap"
)

// BlobService uploads and deletes binary assets on the media host.
// Assets are addressed by URL. Deletion is best-effort: failures are logged
// and swallowed, they never block the calling workflow.
type BlobService struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

// NewBlobService creates a new blob service
func NewBlobService(logger *zap.Logger) *BlobService {
	return &BlobService{
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.cloudinary.com/v1_1/" + config.AppConfig.CloudinaryCloudName,
	}
}

// signedForm builds the signed request form for the media host
func (s *BlobService) signedForm(publicID string) url.Values {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, config.AppConfig.CloudinaryAPISecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", config.AppConfig.CloudinaryAPIKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signature)
	return form
}

// Upload pushes a base64-encoded asset to the media host and returns its URL
func (s *BlobService) Upload(ctx context.Context, base64Data, folder string) (string, error) {
	if base64Data == "" {
		return "", fmt.Errorf("empty upload payload")
	}

	// Strip a data-URI prefix if present
	payload := base64Data
	if i := strings.Index(base64Data, ","); i != -1 {
		payload = base64Data[i+1:]
	}

	publicID := config.AppConfig.CloudinaryFolder + "/" + folder + "/" + uuid.NewString()
	form := s.signedForm(publicID)
	form.Add("file", "data:image/jpeg;base64,"+payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/image/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.httpClient.Do(req)
	if err != nil {
		observability.BlobOperations.WithLabelValues("upload", "error").Inc()
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		observability.BlobOperations.WithLabelValues("upload", "error").Inc()
		s.logger.Error("blob upload rejected",
			zap.Int("status", res.StatusCode),
			zap.String("public_id", publicID))
		return "", fmt.Errorf("upload failed with status %d", res.StatusCode)
	}

	var uploadRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &uploadRes); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if uploadRes.Error.Message != "" {
		observability.BlobOperations.WithLabelValues("upload", "error").Inc()
		return "", fmt.Errorf("media host error: %s", uploadRes.Error.Message)
	}

	assetURL := uploadRes.SecureURL
	if assetURL == "" {
		assetURL = uploadRes.URL
	}
	if assetURL == "" {
		return "", fmt.Errorf("media host returned no URL")
	}

	observability.BlobOperations.WithLabelValues("upload", "success").Inc()
	s.logger.Debug("blob uploaded", zap.String("public_id", publicID))
	return assetURL, nil
}

// Delete removes an asset by URL. Best-effort: every failure is logged and
// swallowed so cleanup can never block a status transition.
func (s *BlobService) Delete(ctx context.Context, assetURL string) {
	publicID, ok := s.publicIDFromURL(assetURL)
	if !ok {
		s.logger.Warn("skipping blob delete for unrecognized URL", zap.String("url", assetURL))
		return
	}

	form := s.signedForm(publicID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/image/destroy", strings.NewReader(form.Encode()))
	if err != nil {
		s.logger.Error("failed to build blob delete request", zap.Error(err), zap.String("public_id", publicID))
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.httpClient.Do(req)
	if err != nil {
		observability.BlobOperations.WithLabelValues("delete", "error").Inc()
		s.logger.Error("blob delete request failed", zap.Error(err), zap.String("public_id", publicID))
		return
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		observability.BlobOperations.WithLabelValues("delete", "error").Inc()
		s.logger.Error("blob delete rejected",
			zap.Int("status", res.StatusCode),
			zap.String("public_id", publicID))
		return
	}

	observability.BlobOperations.WithLabelValues("delete", "success").Inc()
	s.logger.Debug("blob deleted", zap.String("public_id", publicID))
}

// DeleteAll removes a batch of assets, best-effort each
func (s *BlobService) DeleteAll(ctx context.Context, urls []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		s.Delete(ctx, u)
	}
}

// publicIDFromURL extracts the media-host public ID from an asset URL.
// URL format: https://res.cloudinary.com/{cloud}/image/upload/v{n}/{public_id}.{ext}
func (s *BlobService) publicIDFromURL(assetURL string) (string, bool) {
	if !strings.Contains(assetURL, "res.cloudinary.com") {
		return "", false
	}

	parts := strings.Split(assetURL, "/upload/")
	if len(parts) != 2 {
		return "", false
	}

	path := parts[1]
	// Drop the version segment
	if i := strings.Index(path, "/"); i != -1 && strings.HasPrefix(path, "v") {
		path = path[i+1:]
	}
	// Drop the file extension
	if i := strings.LastIndex(path, "."); i != -1 {
		path = path[:i]
	}
	if path == "" {
		return "", false
	}
	return path, true
}
