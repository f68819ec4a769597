package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultServer = "http://127.0.0.1:8080"
	defaultSocket = "/tmp/r6s.sock"
)

type cliConfig struct {
	Transport string `json:"transport"`
	Server    string `json:"server"`
	Socket    string `json:"socket"`
	Session   string `json:"session"`
}

type apiClient struct {
	httpClient *http.Client
	server     string
}

func newAPIClient(server string) *apiClient {
	return &apiClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		server:     strings.TrimRight(server, "/"),
	}
}

func (c *apiClient) request(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &remoteError{Transport: "http", Message: err.Error(), Unreachable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return apiFailure(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// remoteError is a failure reported by the server over either transport.
// Code is the HTTP status or the JSON-RPC error code.
type remoteError struct {
	Transport   string
	Code        int
	Message     string
	Unreachable bool
}

func (e *remoteError) Error() string {
	switch {
	case e.Unreachable:
		return fmt.Sprintf("%s: server unreachable (%s); is `r6s server` running?", e.Transport, e.Message)
	case e.Code == http.StatusNotFound || e.Code == 40400:
		return fmt.Sprintf("%s: %s; run `r6s session open` for a new session", e.Transport, e.Message)
	default:
		return fmt.Sprintf("%s error (%d): %s", e.Transport, e.Code, e.Message)
	}
}

func apiFailure(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(payload))
	if json.Unmarshal(payload, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &remoteError{Transport: "http", Code: resp.StatusCode, Message: msg}
}

// download fetches a file response and the name from its
// Content-Disposition header.
func (c *apiClient) download(ctx context.Context, path string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.server+path, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", nil, apiFailure(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	name := "strategy.json"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = filepath.Base(params["filename"])
	}
	return name, data, nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".r6s", "config.json"), nil
}

func loadConfig() (cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cliConfig{}.withDefaults(), nil
		}
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c cliConfig) withDefaults() cliConfig {
	if c.Transport == "" {
		c.Transport = "uds"
	}
	if c.Server == "" {
		c.Server = defaultServer
	}
	if c.Socket == "" {
		c.Socket = defaultSocket
	}
	return c
}

func saveConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
