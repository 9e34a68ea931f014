package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/utils"
)

type RegisterParams struct {
	UserName string
	Email    string
	Password string
}

// ProfileUpdate 为 nil 的字段保持不变
type ProfileUpdate struct {
	UserName  *string
	AvatarUrl *string
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (*model.User, error) {
	exists, err := s.store.UserNameExists(ctx, p.UserName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errno.ConflictErr.WithMessage("User name already taken")
	}
	passWord, err := utils.Crypt(p.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		UserId:   utils.NextID(),
		UserName: p.UserName,
		Email:    p.Email,
		Password: passWord,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "user %d registered: %s", user.UserId, user.UserName)
	return user, nil
}

// Authenticate 校验用户名和密码。用户不存在与密码错误返回同一个错误
func (s *Service) Authenticate(ctx context.Context, userName, password string) (*model.User, error) {
	user, err := s.store.GetUserByName(ctx, userName)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.UnverifiedErr.WithMessage("Invalid user name or password")
		}
		return nil, err
	}
	if !utils.VerifyPassword(password, user.Password) {
		return nil, errno.UnverifiedErr.WithMessage("Invalid user name or password")
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actorId int64, u ProfileUpdate) (*model.Profile, error) {
	user, err := s.store.GetUser(ctx, actorId)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if u.UserName != nil && *u.UserName != user.UserName {
		exists, err := s.store.UserNameExists(ctx, *u.UserName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errno.ConflictErr.WithMessage("User name already taken")
		}
		fields["user_name"] = *u.UserName
	}
	if u.AvatarUrl != nil {
		fields["avatar_url"] = *u.AvatarUrl
	}
	if err := s.store.UpdateUser(ctx, actorId, fields); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, nil, actorId)
	return s.Project(ctx, actorId)
}
