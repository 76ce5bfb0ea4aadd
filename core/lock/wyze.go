package lock

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	authBaseURL = "https://auth-prod.api.wyze.com"
	lockBaseURL = "https://yd-saas-toc.wyzecam.com"

	// lockModel is the Wyze Lock product model string.
	lockModel = "YD.LO1"
)

// WyzeClient talks to the Wyze cloud API for a single lock device.
type WyzeClient struct {
	cfg         Config
	http        *http.Client
	logg        *zap.Logger
	accessToken string
	deviceMAC   string
	deviceModel string
}

// NewWyzeClient authenticates with the Wyze cloud and resolves the
// configured lock device. Any failure here is an AuthError and fatal for
// the run.
func NewWyzeClient(ctx context.Context, cfg Config, logg *zap.Logger) (*WyzeClient, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	c := &WyzeClient{
		cfg:  cfg,
		logg: logg,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				TLSHandshakeTimeout: timeout,
			},
		},
	}

	if err := c.login(ctx); err != nil {
		return nil, &AuthError{Err: err}
	}
	if err := c.findDevice(ctx); err != nil {
		return nil, &AuthError{Err: err}
	}

	return c, nil
}

// login exchanges the account credentials and API key for an access token.
// Wyze requires API key authentication since July 2023.
func (c *WyzeClient) login(ctx context.Context) error {
	body := map[string]string{
		"email":    c.cfg.Email,
		"password": hashPassword(c.cfg.Password),
	}
	headers := map[string]string{
		"keyid":  c.cfg.KeyID,
		"apikey": c.cfg.APIKey,
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		Description string `json:"description"`
	}
	if err := c.do(ctx, http.MethodPost, authBaseURL+"/api/user/login", headers, body, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login rejected: %s", resp.Description)
	}

	c.accessToken = resp.AccessToken
	c.logg.Info("authenticated with wyze cloud")
	return nil
}

// findDevice locates the configured lock on the account, matching by MAC
// when configured and by nickname otherwise.
func (c *WyzeClient) findDevice(ctx context.Context) error {
	var resp struct {
		Data struct {
			DeviceList []struct {
				MAC          string `json:"mac"`
				Nickname     string `json:"nickname"`
				ProductModel string `json:"product_model"`
			} `json:"device_list"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, lockBaseURL+"/openapi/device/list", nil, map[string]string{}, &resp); err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	wantMAC := strings.ToLower(c.cfg.DeviceMAC)
	wantName := strings.ToLower(c.cfg.DeviceName)

	for _, d := range resp.Data.DeviceList {
		if d.ProductModel != lockModel {
			continue
		}
		if wantMAC != "" && strings.Contains(strings.ToLower(d.MAC), wantMAC) {
			c.deviceMAC = d.MAC
			c.deviceModel = d.ProductModel
			c.logg.Info("found lock by mac", zap.String("nickname", d.Nickname))
			return nil
		}
		if wantMAC == "" && wantName != "" && strings.Contains(strings.ToLower(d.Nickname), wantName) {
			c.deviceMAC = d.MAC
			c.deviceModel = d.ProductModel
			c.logg.Info("found lock by name", zap.String("nickname", d.Nickname))
			return nil
		}
	}

	return fmt.Errorf("lock not found, check device_mac or device_name")
}

type wyzeKey struct {
	ID         int64  `json:"id"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Permission struct {
		Begin int64 `json:"begin"`
		End   int64 `json:"end"`
	} `json:"permission"`
}

// ListAccessCodes returns all code slots currently on the lock.
func (c *WyzeClient) ListAccessCodes(ctx context.Context) ([]AccessCode, error) {
	req := map[string]string{
		"device_mac":   c.deviceMAC,
		"device_model": c.deviceModel,
	}
	var resp struct {
		Data struct {
			Keys []wyzeKey `json:"passwords"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, lockBaseURL+"/openapi/lock/v1/password/list", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("listing access codes: %w", err)
	}

	codes := make([]AccessCode, 0, len(resp.Data.Keys))
	for _, k := range resp.Data.Keys {
		codes = append(codes, AccessCode{
			ID:    strconv.FormatInt(k.ID, 10),
			Code:  k.Password,
			Name:  k.Name,
			Begin: time.UnixMilli(k.Permission.Begin),
			End:   time.UnixMilli(k.Permission.End),
		})
	}
	return codes, nil
}

// CreateAccessCode provisions a temporary code valid for the given window.
func (c *WyzeClient) CreateAccessCode(ctx context.Context, code, name string, begin, end time.Time) error {
	req := map[string]any{
		"device_mac":   c.deviceMAC,
		"device_model": c.deviceModel,
		"password":     code,
		"name":         name,
		"permission": map[string]any{
			"type":  "duration",
			"begin": begin.UnixMilli(),
			"end":   end.UnixMilli(),
		},
	}
	err := c.do(ctx, http.MethodPost, lockBaseURL+"/openapi/lock/v1/password/create", nil, req, nil)
	if err != nil && isDuplicate(err) {
		return ErrDuplicateCode
	}
	return err
}

// UpdateAccessCode adjusts the window and label of an existing slot.
func (c *WyzeClient) UpdateAccessCode(ctx context.Context, id, code, name string, begin, end time.Time) error {
	req := map[string]any{
		"device_mac":   c.deviceMAC,
		"device_model": c.deviceModel,
		"password_id":  id,
		"password":     code,
		"name":         name,
		"permission": map[string]any{
			"type":  "duration",
			"begin": begin.UnixMilli(),
			"end":   end.UnixMilli(),
		},
	}
	err := c.do(ctx, http.MethodPost, lockBaseURL+"/openapi/lock/v1/password/update", nil, req, nil)
	if err != nil && isNotFound(err) {
		return ErrCodeNotFound
	}
	return err
}

// DeleteAccessCode removes a slot from the lock.
func (c *WyzeClient) DeleteAccessCode(ctx context.Context, id string) error {
	req := map[string]any{
		"device_mac":   c.deviceMAC,
		"device_model": c.deviceModel,
		"password_id":  id,
	}
	err := c.do(ctx, http.MethodPost, lockBaseURL+"/openapi/lock/v1/password/delete", nil, req, nil)
	if err != nil && isNotFound(err) {
		return ErrCodeNotFound
	}
	return err
}

// do performs one JSON request/response round trip against the Wyze cloud.
func (c *WyzeClient) do(ctx context.Context, method, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "airbnb-lock-manager")
	if c.accessToken != "" {
		req.Header.Set("Authorization", c.accessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(data))}
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: truncate(data)}
	}

	// The Wyze API reports errors inside a 200 envelope.
	var envelope struct {
		Code    json.Number `json:"code"`
		Message string      `json:"msg"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if code := envelope.Code.String(); code != "" && code != "1" && code != "0" {
			return &APIError{Status: resp.StatusCode, Code: code, Message: envelope.Message}
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// hashPassword applies Wyze's triple-MD5 password scheme.
func hashPassword(password string) string {
	h := password
	for i := 0; i < 3; i++ {
		sum := md5.Sum([]byte(h))
		h = hex.EncodeToString(sum[:])
	}
	return h
}

func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exists")
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "not exist")
}

func truncate(data []byte) string {
	const max = 200
	s := string(data)
	if len(s) > max {
		return s[:max]
	}
	return s
}
