package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/pkg/errno"
)

type VideoTargetParam struct {
	VideoId string `json:"videoId"`
}

type ChannelTargetParam struct {
	ChannelId string `json:"channelId"`
}

type videoAction func(ctx context.Context, actorId, videoId int64) (*service.EngagementResult, error)

// videoEngagement 解析 {videoId} 请求后调用对应的互动操作
func videoEngagement(ctx context.Context, c *app.RequestContext, action videoAction, render func(r *service.EngagementResult) utils.H) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	var req VideoTargetParam
	if !bind(ctx, c, &req) {
		return
	}
	videoId, ok := parseID(c, "videoId", req.VideoId)
	if !ok {
		return
	}
	result, err := action(ctx, actorId, videoId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, render(result))
}

func messageAndUser(r *service.EngagementResult) utils.H {
	return utils.H{"message": r.Message, "user": r.Profile}
}

func (h *Handlers) Like(ctx context.Context, c *app.RequestContext) {
	videoEngagement(ctx, c, h.svc.ToggleLike, messageAndUser)
}

func (h *Handlers) Dislike(ctx context.Context, c *app.RequestContext) {
	videoEngagement(ctx, c, h.svc.ToggleDislike, messageAndUser)
}

func (h *Handlers) ToggleWatchLater(ctx context.Context, c *app.RequestContext) {
	videoEngagement(ctx, c, h.svc.ToggleWatchLater, messageAndUser)
}

func (h *Handlers) RemoveWatchLater(ctx context.Context, c *app.RequestContext) {
	videoEngagement(ctx, c, h.svc.RemoveWatchLater, messageAndUser)
}

func (h *Handlers) UpsertWatchHistory(ctx context.Context, c *app.RequestContext) {
	videoEngagement(ctx, c, h.svc.UpsertWatchHistory, func(r *service.EngagementResult) utils.H {
		return utils.H{"message": r.Message, "watchHistory": r.WatchHistory, "user": r.Profile}
	})
}

func (h *Handlers) RemoveWatchHistory(ctx context.Context, c *app.RequestContext) {
	videoEngagement(ctx, c, h.svc.RemoveWatchHistory, messageAndUser)
}

func (h *Handlers) Subscribe(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	var req ChannelTargetParam
	if !bind(ctx, c, &req) {
		return
	}
	channelId, ok := parseID(c, "channelId", req.ChannelId)
	if !ok {
		return
	}
	result, err := h.svc.ToggleSubscribe(ctx, actorId, channelId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, utils.H{
		"message":    result.Message,
		"subscribed": result.Subscribed,
		"user":       result.Profile,
	})
}
