package client

import (
	"context"
	"net/http"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
)

// Video keys are passed as grade/level/{u|r}part/session paths

// CreateVideo catalogs a new video
func (c *Client) CreateVideo(ctx context.Context, key, youtubeCode string) (*v1alpha1.Video, error) {
	var video v1alpha1.Video
	req := v1alpha1.VideoRequest{YouTubeCode: youtubeCode}
	if err := c.doRequest(ctx, http.MethodPost, "/videos/"+key, req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// UpdateVideo re-points a video at a new YouTube code
func (c *Client) UpdateVideo(ctx context.Context, key, youtubeCode string) (*v1alpha1.Video, error) {
	var video v1alpha1.Video
	req := v1alpha1.VideoRequest{YouTubeCode: youtubeCode}
	if err := c.doRequest(ctx, http.MethodPatch, "/videos/"+key, req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// DeleteVideo removes a video
func (c *Client) DeleteVideo(ctx context.Context, key string) error {
	return c.doRequest(ctx, http.MethodDelete, "/videos/"+key, nil, nil)
}

// ListVideos returns the whole catalog
func (c *Client) ListVideos(ctx context.Context) ([]v1alpha1.Video, error) {
	var list v1alpha1.ListResponse[v1alpha1.Video]
	if err := c.doRequest(ctx, http.MethodGet, "/videos", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetVideo fetches a video the caller holds a live activation for
func (c *Client) GetVideo(ctx context.Context, key string) (*v1alpha1.Video, error) {
	var video v1alpha1.Video
	if err := c.doRequest(ctx, http.MethodGet, "/videos/"+key, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}
