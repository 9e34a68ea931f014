package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ViewTube.com/cmd/model"
)

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return errors.Wrapf(err, "CreateUser failed, userName: %s", user.UserName)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userId int64) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).Where("user_id = ?", userId).First(&user).Error; err != nil {
		return nil, notFound(err, "user not found", "GetUser failed, userId: %d", userId)
	}
	return &user, nil
}

// GetUserForUpdate 读取并锁住用户行，同一用户的并发互动操作在这里排队
func (s *Store) GetUserForUpdate(ctx context.Context, userId int64) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userId).First(&user).Error; err != nil {
		return nil, notFound(err, "user not found", "GetUserForUpdate failed, userId: %d", userId)
	}
	return &user, nil
}

func (s *Store) GetUserByName(ctx context.Context, userName string) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).Where("user_name = ?", userName).First(&user).Error; err != nil {
		return nil, notFound(err, "user not found", "GetUserByName failed, userName: %s", userName)
	}
	return &user, nil
}

func (s *Store) UserNameExists(ctx context.Context, userName string) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&model.User{}).Where("user_name = ?", userName).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "Query user failed")
	}
	return count > 0, nil
}

// GetUsersByIds 批量读取用户，不存在的ID直接缺席
func (s *Store) GetUsersByIds(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	res := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	var users []*model.User
	if err := s.conn(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "GetUsersByIds failed")
	}
	for _, u := range users {
		res[u.UserId] = u
	}
	return res, nil
}

func (s *Store) UpdateUser(ctx context.Context, userId int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(&model.User{}).Where("user_id = ?", userId).Updates(fields).Error; err != nil {
		return errors.Wrapf(err, "Update user failed, userId: %d", userId)
	}
	return nil
}

func (s *Store) SetUserChannel(ctx context.Context, userId, channelId int64) error {
	if err := s.conn(ctx).Model(&model.User{}).Where("user_id = ?", userId).UpdateColumn("channel_id", channelId).Error; err != nil {
		return errors.Wrapf(err, "SetUserChannel failed, userId: %d", userId)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userId int64) error {
	res := s.conn(ctx).Where("user_id = ?", userId).Delete(&model.User{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "Delete user failed, userId: %d", userId)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user not found", "")
	}
	return nil
}
