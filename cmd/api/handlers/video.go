package handlers

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
)

type CreateVideoParam struct {
	ChannelId    string `json:"channelId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoUrl     string `json:"videoUrl"`
	ThumbnailUrl string `json:"thumbnailUrl"`
	Category     string `json:"category"`
}

type UpdateVideoParam struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	VideoUrl     *string `json:"videoUrl"`
	ThumbnailUrl *string `json:"thumbnailUrl"`
	Category     *string `json:"category"`
}

func (h *Handlers) CreateVideo(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	var req CreateVideoParam
	if !bind(ctx, c, &req) {
		return
	}
	channelId, ok := parseID(c, "channelId", req.ChannelId)
	if !ok {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > constants.MaxTitleLength {
		SendResponse(c, errno.ParamErr.WithMessage("title is required"), nil)
		return
	}
	if strings.TrimSpace(req.VideoUrl) == "" {
		SendResponse(c, errno.ParamErr.WithMessage("videoUrl is required"), nil)
		return
	}
	video, err := h.svc.CreateVideo(ctx, actorId, service.VideoParams{
		ChannelId:    channelId,
		Title:        req.Title,
		Description:  req.Description,
		VideoUrl:     req.VideoUrl,
		ThumbnailUrl: req.ThumbnailUrl,
		Category:     req.Category,
	})
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, video)
}

func (h *Handlers) GetVideo(ctx context.Context, c *app.RequestContext) {
	videoId, ok := parseID(c, "video id", c.Param("id"))
	if !ok {
		return
	}
	video, err := h.svc.GetVideo(ctx, videoId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, video)
}

func (h *Handlers) UpdateVideo(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	videoId, ok := parseID(c, "video id", c.Param("id"))
	if !ok {
		return
	}
	var req UpdateVideoParam
	if !bind(ctx, c, &req) {
		return
	}
	update := service.VideoUpdate{
		Title:        optionalString(req.Title),
		Description:  req.Description,
		VideoUrl:     optionalString(req.VideoUrl),
		ThumbnailUrl: optionalString(req.ThumbnailUrl),
		Category:     optionalString(req.Category),
	}
	if (update.Title != nil && *update.Title == "") || (update.VideoUrl != nil && *update.VideoUrl == "") {
		SendResponse(c, errno.ParamErr.WithMessage("title and videoUrl can not be empty"), nil)
		return
	}
	video, err := h.svc.UpdateVideo(ctx, actorId, videoId, update)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, video)
}

func (h *Handlers) DeleteVideo(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	videoId, ok := parseID(c, "video id", c.Param("id"))
	if !ok {
		return
	}
	if err := h.svc.DeleteVideo(ctx, actorId, videoId); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, map[string]string{"message": "Video deleted"})
}
