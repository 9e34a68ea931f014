package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/app"

	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/utils"
)

type RegisterParam struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileParam struct {
	UserName  *string `json:"userName"`
	AvatarUrl *string `json:"avatarUrl"`
}

func (h *Handlers) Register(ctx context.Context, c *app.RequestContext) {
	var req RegisterParam
	if !bind(ctx, c, &req) {
		return
	}
	req.UserName = strings.TrimSpace(req.UserName)
	switch {
	case req.UserName == "" || utf8.RuneCountInString(req.UserName) > 64:
		SendResponse(c, errno.ParamErr.WithMessage("userName is required and at most 64 characters"), nil)
		return
	case !utils.IsValidEmail(req.Email):
		SendResponse(c, errno.ParamErr.WithMessage("invalid email"), nil)
		return
	case len(req.Password) < constants.MinPasswordLength:
		SendResponse(c, errno.ParamErr.WithMessagef("password must be at least %d characters", constants.MinPasswordLength), nil)
		return
	}
	user, err := h.svc.Register(ctx, service.RegisterParams{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, user)
}

func (h *Handlers) GetMe(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	profile, err := h.svc.GetProfile(ctx, actorId)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, profile)
}

func (h *Handlers) UpdateMe(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	var req UpdateProfileParam
	if !bind(ctx, c, &req) {
		return
	}
	update := service.ProfileUpdate{UserName: optionalString(req.UserName), AvatarUrl: optionalString(req.AvatarUrl)}
	if update.UserName != nil && *update.UserName == "" {
		SendResponse(c, errno.ParamErr.WithMessage("userName can not be empty"), nil)
		return
	}
	profile, err := h.svc.UpdateProfile(ctx, actorId, update)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, profile)
}

func (h *Handlers) DeleteAccount(ctx context.Context, c *app.RequestContext) {
	actorId, ok := actor(ctx, c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(ctx, actorId); err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, map[string]string{"message": "Account deleted"})
}
