package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	hzjwt "github.com/hertz-contrib/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/cmd/api/handlers"
	"ViewTube.com/cmd/api/router"
	"ViewTube.com/cmd/engagement/dal/db/dbtest"
	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/cmd/model"
	"ViewTube.com/config"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/jwt"
)

type envelope struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	h    *server.Hertz
	svc  *service.Service
	auth *hzjwt.HertzJWTMiddleware
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	svc := service.New(dbtest.NewStore(t))
	auth, err := jwt.New(config.Jwt{Secret: "test-secret"}, func(ctx context.Context, userName, password string) (int64, error) {
		user, err := svc.Authenticate(ctx, userName, password)
		if err != nil {
			return 0, err
		}
		return user.UserId, nil
	})
	require.NoError(t, err)

	h := server.New()
	router.Register(h, handlers.New(svc, handlers.HealthProbe{}), auth)
	return &testServer{h: h, svc: svc, auth: auth}
}

func (s *testServer) do(t *testing.T, method, url, token string, body interface{}) (int, envelope) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	headers := []ut.Header{{Key: "Content-Type", Value: "application/json"}}
	if token != "" {
		headers = append(headers, ut.Header{Key: "Authorization", Value: "Bearer " + token})
	}
	w := ut.PerformRequest(s.h.Engine, method, url, &ut.Body{Body: bytes.NewReader(payload), Len: len(payload)}, headers...)
	resp := w.Result()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body(), &env), string(resp.Body()))
	return resp.StatusCode(), env
}

func (s *testServer) token(t *testing.T, userId int64) string {
	t.Helper()
	token, err := jwt.GenerateToken(s.auth, userId)
	require.NoError(t, err)
	return token
}

func (s *testServer) seed(t *testing.T) (creator, viewer *model.User, channel *model.Channel, video *model.Video) {
	t.Helper()
	ctx := context.Background()
	var err error
	creator, err = s.svc.Register(ctx, service.RegisterParams{UserName: "creator", Email: "creator@example.com", Password: "secret123"})
	require.NoError(t, err)
	viewer, err = s.svc.Register(ctx, service.RegisterParams{UserName: "viewer", Email: "viewer@example.com", Password: "secret123"})
	require.NoError(t, err)
	channel, err = s.svc.CreateChannel(ctx, creator.UserId, service.ChannelParams{Name: "creator channel", DeleteKey: "delete-me"})
	require.NoError(t, err)
	detail, err := s.svc.CreateVideo(ctx, creator.UserId, service.VideoParams{ChannelId: channel.ChannelId, Title: "intro"})
	require.NoError(t, err)
	return creator, viewer, channel, detail.Video
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"userName": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, errno.SuccessCode, env.Code)
	assert.NotContains(t, string(env.Data), "secret123")

	status, env = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"userName": "alice", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.EqualValues(t, errno.ConflictCode, env.Code)

	status, env = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"userName": "bob", "email": "not-an-email", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, errno.ParamErrCode, env.Code)

	status, env = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"userName": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)

	status, env = s.do(t, http.MethodGet, "/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me model.Profile
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.UserName)
	assert.NotNil(t, me.LikedVideos)

	status, _ = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"userName": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLikeEndpoint(t *testing.T) {
	s := newTestServer(t)
	_, viewer, _, video := s.seed(t)
	token := s.token(t, viewer.UserId)

	status, env := s.do(t, http.MethodPost, "/likes", token, map[string]string{"videoId": id(video.VideoId)})
	require.Equal(t, http.StatusOK, status, env.Message)
	var res struct {
		Message string        `json:"message"`
		User    model.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Video liked", res.Message)
	require.Len(t, res.User.LikedVideos, 1)
	assert.Equal(t, video.VideoId, res.User.LikedVideos[0].VideoId)

	status, env = s.do(t, http.MethodGet, "/videos/"+id(video.VideoId), "", nil)
	require.Equal(t, http.StatusOK, status)
	var detail model.VideoDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.EqualValues(t, 1, detail.Likes)
}

func TestEngagementErrors(t *testing.T) {
	s := newTestServer(t)
	creator, viewer, channel, video := s.seed(t)
	token := s.token(t, viewer.UserId)

	cases := []struct {
		name   string
		method string
		url    string
		token  string
		body   interface{}
		status int
		code   int64
	}{
		{"no token", http.MethodPost, "/likes", "", map[string]string{"videoId": id(video.VideoId)}, http.StatusUnauthorized, errno.AuthorizationCode},
		{"bad token", http.MethodPost, "/likes", "garbage", map[string]string{"videoId": id(video.VideoId)}, http.StatusUnauthorized, errno.AuthorizationCode},
		{"malformed id", http.MethodPost, "/dislikes", token, map[string]string{"videoId": "abc"}, http.StatusBadRequest, errno.ParamErrCode},
		{"missing video", http.MethodPost, "/watchhistory", token, map[string]string{"videoId": "12345"}, http.StatusNotFound, errno.NotFoundCode},
		{"self subscribe", http.MethodPost, "/subscribe", token, map[string]string{"channelId": id(viewer.UserId)}, http.StatusForbidden, errno.ForbiddenCode},
		{"own channel", http.MethodPost, "/subscribe", s.token(t, creator.UserId), map[string]string{"channelId": id(channel.ChannelId)}, http.StatusForbidden, errno.ForbiddenCode},
		{"wrong delete key", http.MethodDelete, "/channels/" + id(channel.ChannelId), s.token(t, creator.UserId), map[string]string{"uniqueDeleteKey": "nope"}, http.StatusForbidden, errno.UnverifiedCode},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, env := s.do(t, c.method, c.url, c.token, c.body)
			assert.Equal(t, c.status, status, env.Message)
			assert.EqualValues(t, c.code, env.Code, env.Message)
		})
	}
}

func TestSubscribeAndDeleteChannel(t *testing.T) {
	s := newTestServer(t)
	creator, viewer, channel, video := s.seed(t)
	token := s.token(t, viewer.UserId)

	status, env := s.do(t, http.MethodPost, "/subscribe", token, map[string]string{"channelId": id(channel.ChannelId)})
	require.Equal(t, http.StatusOK, status, env.Message)
	var res struct {
		Subscribed bool `json:"subscribed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Subscribed)

	status, env = s.do(t, http.MethodDelete, "/channels/"+id(channel.ChannelId), s.token(t, creator.UserId), map[string]string{"uniqueDeleteKey": "delete-me"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, _ = s.do(t, http.MethodGet, "/videos/"+id(video.VideoId), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/channels/%d", channel.ChannelId), "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me model.Profile
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Empty(t, me.SubscribedChannels)
}

func TestInternalErrorsAreNotExposed(t *testing.T) {
	s := newTestServer(t)
	_, _, _, video := s.seed(t)
	require.NoError(t, s.svc.Store().DB().Exec("DROP TABLE videos").Error)

	status, env := s.do(t, http.MethodGet, "/videos/"+id(video.VideoId), "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.EqualValues(t, errno.ServiceErrCode, env.Code)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, env.Message, "videos")
}
