package client

import (
	"context"
	"net/http"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// Status returns the full player status.
func (c *Client) Status(ctx context.Context) (*v1alpha1.PlayerStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "status", nil)
	if err != nil {
		return nil, err
	}
	var status v1alpha1.PlayerStatus
	if err := decodeResponse(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Canvases lists per-canvas state.
func (c *Client) Canvases(ctx context.Context) ([]v1alpha1.CanvasStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "canvases", nil)
	if err != nil {
		return nil, err
	}
	var canvases []v1alpha1.CanvasStatus
	if err := decodeResponse(resp, &canvases); err != nil {
		return nil, err
	}
	return canvases, nil
}

// Canvas returns one canvas's state.
func (c *Client) Canvas(ctx context.Context, id string) (*v1alpha1.CanvasStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "canvases/"+id, nil)
	if err != nil {
		return nil, err
	}
	var canvas v1alpha1.CanvasStatus
	if err := decodeResponse(resp, &canvas); err != nil {
		return nil, err
	}
	return &canvas, nil
}

// Spans returns recent playback spans, newest last.
func (c *Client) Spans(ctx context.Context) ([]v1alpha1.PlaybackSpan, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "spans", nil)
	if err != nil {
		return nil, err
	}
	var spans []v1alpha1.PlaybackSpan
	if err := decodeResponse(resp, &spans); err != nil {
		return nil, err
	}
	return spans, nil
}

// Reload forces the player to re-read its manifest file. It returns the
// number of recognized items in the reloaded manifest.
func (c *Client) Reload(ctx context.Context) (int, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "reload", nil)
	if err != nil {
		return 0, err
	}
	var result struct {
		Items int `json:"items"`
	}
	if err := decodeResponse(resp, &result); err != nil {
		return 0, err
	}
	return result.Items, nil
}
