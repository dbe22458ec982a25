// Package cloudinary は unsigned upload preset を使った Cloudinary への画像アップロードを実装する。
// アップロードした実ファイルの削除は管理コンソールからの手動運用で、この API からは行わない。
package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sngm3741/karts-club-services/api/internal/member/application"
)

// Config defines dependencies and settings for Client.
type Config struct {
	HTTPClient   *http.Client
	Logger       *log.Logger
	BaseURL      string
	CloudName    string
	UploadPreset string
	Folder       string
}

// Client は application.ImageUploader の Cloudinary 実装。
type Client struct {
	httpClient   *http.Client
	logger       *log.Logger
	baseURL      string
	cloudName    string
	uploadPreset string
	folder       string
}

// New は設定済みの Cloudinary クライアントを生成する。
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		logger:       cfg.Logger,
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		cloudName:    cfg.CloudName,
		uploadPreset: cfg.UploadPreset,
		folder:       cfg.Folder,
	}
}

// uploadResponse は Cloudinary アップロード API の応答のうち利用するフィールド。
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload はバイナリを multipart で送信し、公開 URL と public_id を返す。
// public_id の一意性は呼び出し側の責務。
func (c *Client) Upload(ctx context.Context, publicID, filename string, content io.Reader) (application.UploadedImage, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"upload_preset": c.uploadPreset,
		"folder":        c.folder,
		"public_id":     publicID,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return application.UploadedImage{}, fmt.Errorf("multipart フィールドの書き込みに失敗: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return application.UploadedImage{}, fmt.Errorf("multipart パートの作成に失敗: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return application.UploadedImage{}, fmt.Errorf("画像データの読み込みに失敗: %w", err)
	}
	if err := writer.Close(); err != nil {
		return application.UploadedImage{}, fmt.Errorf("multipart の終端に失敗: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return application.UploadedImage{}, fmt.Errorf("アップロードリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return application.UploadedImage{}, fmt.Errorf("Cloudinary への接続に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if c.logger != nil {
			c.logger.Printf("Cloudinary アップロード失敗 status=%d body=%s", resp.StatusCode, string(snippet))
		}
		return application.UploadedImage{}, fmt.Errorf("Cloudinary アップロード失敗: status=%d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return application.UploadedImage{}, fmt.Errorf("Cloudinary 応答の解析に失敗: %w", err)
	}
	if parsed.SecureURL == "" || parsed.PublicID == "" {
		return application.UploadedImage{}, fmt.Errorf("Cloudinary 応答に secure_url / public_id がありません")
	}

	return application.UploadedImage{URL: parsed.SecureURL, PublicID: parsed.PublicID}, nil
}
