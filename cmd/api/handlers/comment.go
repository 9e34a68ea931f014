package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/app"

	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
)

type CreateCommentParam struct {
	Text string `json:"text"`
}

func (h *Handlers) CreateComment(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	videoId, ok := parseID(c, "video id", c.Param("id"))
	if !ok {
		return
	}
	var req CreateCommentParam
	if !bind(ctx, c, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" || utf8.RuneCountInString(text) > constants.MaxCommentLength {
		SendResponse(c, errno.ParamErr.WithMessagef("text is required and at most %d characters", constants.MaxCommentLength), nil)
		return
	}
	comment, err := h.svc.CreateComment(ctx, actorId, videoId, text)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, comment)
}

func (h *Handlers) ListComments(ctx context.Context, c *app.RequestContext) {
	videoId, ok := parseID(c, "video id", c.Param("id"))
	if !ok {
		return
	}
	var page PageParam
	if !bind(ctx, c, &page) {
		return
	}
	num, size := page.normalize()
	comments, err := h.svc.ListComments(ctx, videoId, num, size)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, comments)
}

func (h *Handlers) DeleteComment(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	commentId, ok := parseID(c, "comment id", c.Param("id"))
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(ctx, actorId, commentId); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, map[string]string{"message": "Comment deleted"})
}
