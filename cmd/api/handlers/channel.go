package handlers

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
)

type CreateChannelParam struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	BannerUrl       string `json:"bannerUrl"`
	UniqueDeleteKey string `json:"uniqueDeleteKey"`
}

type UpdateChannelParam struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	BannerUrl   *string `json:"bannerUrl"`
}

type DeleteChannelParam struct {
	UniqueDeleteKey string `json:"uniqueDeleteKey"`
}

func (h *Handlers) CreateChannel(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	var req CreateChannelParam
	if !bind(ctx, c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > constants.MaxTitleLength {
		SendResponse(c, errno.ParamErr.WithMessage("channel name is required"), nil)
		return
	}
	if len(req.UniqueDeleteKey) < constants.MinDeleteKeyLength {
		SendResponse(c, errno.ParamErr.WithMessagef("uniqueDeleteKey must be at least %d characters", constants.MinDeleteKeyLength), nil)
		return
	}
	channel, err := h.svc.CreateChannel(ctx, actorId, service.ChannelParams{
		Name:        req.Name,
		Description: req.Description,
		BannerUrl:   req.BannerUrl,
		DeleteKey:   req.UniqueDeleteKey,
	})
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, channel)
}

func (h *Handlers) GetChannel(ctx context.Context, c *app.RequestContext) {
	channelId, ok := parseID(c, "channel id", c.Param("id"))
	if !ok {
		return
	}
	channel, err := h.svc.GetChannel(ctx, channelId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, channel)
}

func (h *Handlers) UpdateChannel(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	channelId, ok := parseID(c, "channel id", c.Param("id"))
	if !ok {
		return
	}
	var req UpdateChannelParam
	if !bind(ctx, c, &req) {
		return
	}
	update := service.ChannelUpdate{
		Name:        optionalString(req.Name),
		Description: req.Description,
		BannerUrl:   optionalString(req.BannerUrl),
	}
	if update.Name != nil && *update.Name == "" {
		SendResponse(c, errno.ParamErr.WithMessage("channel name can not be empty"), nil)
		return
	}
	channel, err := h.svc.UpdateChannel(ctx, actorId, channelId, update)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, channel)
}

func (h *Handlers) DeleteChannel(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	channelId, ok := parseID(c, "channel id", c.Param("id"))
	if !ok {
		return
	}
	var req DeleteChannelParam
	if !bind(ctx, c, &req) {
		return
	}
	if req.UniqueDeleteKey == "" {
		SendResponse(c, errno.ParamErr.WithMessage("uniqueDeleteKey is required"), nil)
		return
	}
	if err := h.svc.DeleteChannel(ctx, actorId, channelId, req.UniqueDeleteKey); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, map[string]string{"message": "Channel deleted"})
}

func (h *Handlers) ListChannelVideos(ctx context.Context, c *app.RequestContext) {
	channelId, ok := parseID(c, "channel id", c.Param("id"))
	if !ok {
		return
	}
	var page PageParam
	if !bind(ctx, c, &page) {
		return
	}
	num, size := page.normalize()
	videos, err := h.svc.ListChannelVideos(ctx, channelId, num, size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, videos)
}
