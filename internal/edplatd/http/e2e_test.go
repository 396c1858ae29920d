package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/events"
	edplathttp "github.com/khaledhosny129/Educational-platform/internal/edplatd/http"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/memstore"
)

const signingKey = "0123456789abcdef0123456789abcdef"

// clock is a settable time source shared by the services
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type server struct {
	t           *testing.T
	srv         *httptest.Server
	hub         *events.Hub
	activations activation.Service
	clock       *clock
}

func newServer(t *testing.T) *server {
	store := memstore.New()
	hub := events.NewHub(zerolog.Nop())
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	catalogSvc := catalog.NewService(store.Videos(), zerolog.Nop())
	codeSvc := code.NewService(store.Codes(), zerolog.Nop(), code.WithClock(clk.Now), code.WithPublisher(hub))
	activationSvc := activation.NewService(store.Activations(), store.Videos(), store.Codes(), zerolog.Nop(),
		activation.WithClock(clk.Now), activation.WithPublisher(hub))

	h := edplathttp.NewHandler(catalogSvc, codeSvc, activationSvc, auth.NewJWTVerifier(signingKey), zerolog.Nop(),
		edplathttp.WithEventStream(hub))

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	return &server{t: t, srv: srv, hub: hub, activations: activationSvc, clock: clk}
}

func (s *server) token(userID string, role auth.Role) string {
	tok, err := auth.IssueToken(signingKey, userID, role, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *server) do(method, path, token string, body any, out any) int {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+edplathttp.APIPrefix+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestEndToEnd_ActivationLifecycle(t *testing.T) {
	s := newServer(t)
	admin := s.token("admin", auth.RoleAdmin)
	alice := s.token("alice", auth.RoleUser)
	bob := s.token("bob", auth.RoleUser)

	unit := "/videos/G10/L2/u3/S1"
	revision := "/videos/G10/L2/r1/S1"

	var video v1alpha1.Video
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, unit, admin, v1alpha1.VideoRequest{YouTubeCode: "yt1"}, &video))
	assert.Equal(t, "G10 L2 Unit 3 Session S1", video.Title)

	var rev v1alpha1.Video
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, revision, admin, v1alpha1.VideoRequest{YouTubeCode: "yt2"}, &rev))
	assert.Equal(t, "G10 L2 Revision 1", rev.Title)

	var errBody v1alpha1.ErrorResponse
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, unit, admin, v1alpha1.VideoRequest{YouTubeCode: "yt1"}, &errBody))

	var c1, c2 v1alpha1.AccessCode
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/codes/generate", admin, nil, &c1))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/codes/generate", admin, nil, &c2))

	// No grant yet
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, unit, alice, nil, &errBody))

	var act v1alpha1.Activation
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, unit+"/activate", alice, v1alpha1.ActivateRequest{Code: c1.Code}, &act))
	assert.Equal(t, "alice", act.User.ID)
	assert.True(t, s.clock.Now().Add(activation.TTL).Equal(act.ExpiresAt))

	var got v1alpha1.Video
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, unit, alice, nil, &got))
	assert.Equal(t, video.ID, got.ID)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, unit, bob, nil, &errBody))

	// A second activation is refused before the code is looked at
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, unit+"/activate", alice, v1alpha1.ActivateRequest{Code: c2.Code}, &errBody))
	assert.Equal(t, "ALREADY_ACTIVE", errBody.Code)

	// A used code cannot be redeemed by anyone else
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, unit+"/activate", bob, v1alpha1.ActivateRequest{Code: c1.Code}, &errBody))
	assert.Equal(t, "INVALID_CODE", errBody.Code)

	var mine v1alpha1.ListResponse[v1alpha1.Activation]
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/videos/activations", alice, nil, &mine))
	require.Len(t, mine.Items, 1)
	require.NotNil(t, mine.Items[0].Video)
	assert.Equal(t, video.ID, mine.Items[0].Video.ID)
	require.NotNil(t, mine.Items[0].Code)
	assert.True(t, mine.Items[0].Code.Used)

	var validated v1alpha1.ValidateResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/activations/validate", "", v1alpha1.ValidateRequest{Code: c1.Code}, &validated))
	assert.Equal(t, "alice", validated.User.ID)
	assert.Equal(t, video.ID, validated.Video.ID)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/activations/validate", "", v1alpha1.ValidateRequest{Code: c2.Code}, &errBody))

	var codes v1alpha1.ListResponse[v1alpha1.AccessCode]
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/codes", admin, nil, &codes))
	assert.Equal(t, 2, codes.TotalCount)

	// Exactly at expiry the grant still holds; a moment later it does not
	s.clock.Advance(activation.TTL)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, unit, alice, nil, &got))
	s.clock.Advance(time.Millisecond)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, unit, alice, nil, &errBody))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, unit+"/deactivate", alice, nil, &errBody))

	// The expired grant can be renewed with a fresh code
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, unit+"/activate", alice, v1alpha1.ActivateRequest{Code: c2.Code}, &act))

	var msg v1alpha1.DeactivateResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, unit+"/deactivate", alice, nil, &msg))
	assert.Equal(t, "Video deactivated successfully", msg.Message)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, unit, alice, nil, &errBody))

	// Deleting a video removes its activations with it
	var c3 v1alpha1.AccessCode
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/codes/generate", admin, nil, &c3))
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, revision+"/activate", bob, v1alpha1.ActivateRequest{Code: c3.Code}, &act))
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, revision, admin, nil, nil))

	var all v1alpha1.ListResponse[v1alpha1.Activation]
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/activations", admin, nil, &all))
	for _, a := range all.Items {
		assert.NotEqual(t, rev.ID, a.Video.ID)
	}
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, revision+"/activate", bob, v1alpha1.ActivateRequest{Code: c3.Code}, &errBody))
}

func TestEndToEnd_UpdateVideo(t *testing.T) {
	s := newServer(t)
	admin := s.token("admin", auth.RoleAdmin)

	var video v1alpha1.Video
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPatch, "/videos/G1/L1/u1/S1", admin, v1alpha1.VideoRequest{YouTubeCode: "x"}, &video))

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/videos/G1/L1/u1/S1", admin, v1alpha1.VideoRequest{YouTubeCode: "old"}, &video))
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/videos/G1/L1/u1/S1", admin, v1alpha1.VideoRequest{YouTubeCode: "new"}, &video))
	assert.Equal(t, "new", video.YouTubeCode)
	assert.True(t, strings.HasSuffix(video.URL, "v=new"))

	var list v1alpha1.ListResponse[v1alpha1.Video]
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/videos", admin, nil, &list))
	assert.Equal(t, 1, list.TotalCount)
}

func TestEndToEnd_ExpiredTokenRejected(t *testing.T) {
	s := newServer(t)

	expired, err := auth.IssueToken(signingKey, "alice", auth.RoleUser, -time.Minute)
	require.NoError(t, err)

	var errBody v1alpha1.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/videos/activations", expired, nil, &errBody))
	assert.Equal(t, "INVALID_TOKEN", errBody.Code)
}

func TestEndToEnd_EventStream(t *testing.T) {
	s := newServer(t)
	admin := s.token("admin", auth.RoleAdmin)

	wsURL := "ws" + strings.TrimPrefix(s.srv.URL, "http") + edplathttp.APIPrefix + "/activations/events"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+admin)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	var c v1alpha1.AccessCode
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/codes/generate", admin, nil, &c))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt v1alpha1.Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, v1alpha1.EventCodeGenerated, evt.Type)
	require.NotNil(t, evt.CodeID)
	assert.Equal(t, c.ID, *evt.CodeID)
}

func TestEndToEnd_GenerateActivateRevoke(t *testing.T) {
	s := newServer(t)
	admin := s.token("admin", auth.RoleAdmin)
	u1 := s.token("U1", auth.RoleUser)
	key := "/videos/3/primary/u2/1"

	var c1 v1alpha1.AccessCode
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/codes/generate", admin, nil, &c1))

	var video v1alpha1.Video
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, key, admin, v1alpha1.VideoRequest{YouTubeCode: "abc"}, &video))

	var act v1alpha1.Activation
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, key+"/activate", u1, v1alpha1.ActivateRequest{Code: c1.Code}, &act))

	var got v1alpha1.Video
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, key, u1, nil, &got))
	assert.Equal(t, video.ID, got.ID)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, key+"/deactivate", u1, nil, nil))

	var errBody v1alpha1.ErrorResponse
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, key, u1, nil, &errBody))
	assert.Equal(t, "NO_ACTIVE_GRANT", errBody.Code)
}
