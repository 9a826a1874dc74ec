// Package api talks to the keepsake HTTP service: capsules, gifts and music jars.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"keepsake/internal/httpclient"
)

// Fallback messages used when a failed response carries no "error" field.
const (
	msgCapsuleFailed = "capsule could not be created"
	msgGiftFailed    = "gift could not be sent"
	msgMusicFailed   = "music could not be added"
	msgJarsFailed    = "failed to load jar types"
	msgJarEmpty      = "no music in this jar yet"
	msgNoMusic       = "no music yet"
	msgPlayFailed    = "play count could not be updated"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, hc *httpclient.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    hc,
	}
}

func (c *Client) CreateCapsule(ctx context.Context, req CapsuleRequest) (*CapsuleResponse, error) {
	var out CapsuleResponse
	if err := c.postJSON(ctx, "/api/capsules", req, &out, msgCapsuleFailed); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendGift(ctx context.Context, req GiftRequest) (*GiftResponse, error) {
	var out GiftResponse
	if err := c.postJSON(ctx, "/api/gifts", req, &out, msgGiftFailed); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddMusic(ctx context.Context, req MusicRequest) error {
	return c.postJSON(ctx, "/api/music", req, nil, msgMusicFailed)
}

func (c *Client) ListJars(ctx context.Context) ([]Jar, error) {
	var jars []Jar
	if err := c.getJSON(ctx, "/api/music/jars", &jars, msgJarsFailed); err != nil {
		return nil, err
	}
	return jars, nil
}

// RandomMusic picks a random song from one jar.
func (c *Client) RandomMusic(ctx context.Context, jar string) (*Music, error) {
	var m Music
	if err := c.getJSON(ctx, "/api/music/random/"+url.PathEscape(jar), &m, msgJarEmpty); err != nil {
		return nil, err
	}
	return &m, nil
}

// RandomMusicAny picks a random song from any jar.
func (c *Client) RandomMusicAny(ctx context.Context) (*Music, error) {
	var m Music
	if err := c.getJSON(ctx, "/api/music/random", &m, msgNoMusic); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) IncrementPlayCount(ctx context.Context, musicID int64) error {
	resp, err := c.http.Put(ctx, c.baseURL+"/api/music/"+strconv.FormatInt(musicID, 10)+"/play", nil, nil)
	if err != nil {
		return fmt.Errorf("increment play count: %w", err)
	}
	if !httpclient.IsSuccess(resp) {
		return apiError(resp, msgPlayFailed)
	}
	return httpclient.DecodeJSON(resp, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any, fallback string) error {
	resp, err := c.http.Get(ctx, c.baseURL+path, map[string]string{"Accept": "application/json"})
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if !httpclient.IsSuccess(resp) {
		return apiError(resp, fallback)
	}
	return httpclient.DecodeJSON(resp, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any, fallback string) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resp, err := c.http.Post(ctx, c.baseURL+path, bytes.NewReader(b), nil)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if !httpclient.IsSuccess(resp) {
		return apiError(resp, fallback)
	}
	return httpclient.DecodeJSON(resp, out)
}

func apiError(resp *http.Response, fallback string) error {
	body := httpclient.ReadErrorBody(resp)
	msg := body.GetString("error", "message")
	if msg == "" {
		msg = fallback
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
