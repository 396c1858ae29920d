package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
)

// WatchEvents streams activation lifecycle events to fn until ctx is done,
// the server closes the stream or fn returns an error
func (c *Client) WatchEvents(ctx context.Context, fn func(v1alpha1.Event) error) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + apiPrefix + "/activations/events"

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := *websocket.DefaultDialer
	if tr, ok := c.httpClient.Transport.(*http.Transport); ok && tr.TLSClientConfig != nil {
		dialer.TLSClientConfig = tr.TLSClientConfig
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if apiErr := handleResponse(resp); apiErr != nil {
				return apiErr
			}
		}
		return fmt.Errorf("error connecting to event stream: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var evt v1alpha1.Event
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("error reading event: %w", err)
		}
		if err := fn(evt); err != nil {
			return err
		}
	}
}
