package dto

import (
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"time"

	"github.com/jinzhu/copier"
)

// ToUserDTO 存储模型到接口结构的唯一映射
func ToUserDTO(u *model.User) (*UserDTO, error) {
	out := &UserDTO{}
	if err := copier.Copy(out, u); err != nil {
		return nil, err
	}

	out.LinkedAccounts = make([]LinkedAccountDTO, 0, len(u.LinkedAccounts))
	for i := range u.LinkedAccounts {
		var la LinkedAccountDTO
		if err := copier.Copy(&la, &u.LinkedAccounts[i]); err != nil {
			return nil, err
		}
		out.LinkedAccounts = append(out.LinkedAccounts, la)
	}

	if u.Metrics != nil {
		if err := copier.Copy(&out.Metrics, u.Metrics); err != nil {
			return nil, err
		}
	}

	out.Achievements = make([]AchievementDTO, 0, len(u.Achievements))
	for i := range u.Achievements {
		var a AchievementDTO
		if err := copier.Copy(&a, &u.Achievements[i]); err != nil {
			return nil, err
		}
		out.Achievements = append(out.Achievements, a)
	}

	if u.OTP == nil {
		out.OTPExpires = nil
	}
	return out, nil
}

func ToUserDTOs(users []*model.User) ([]*UserDTO, error) {
	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		d, err := ToUserDTO(u)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func ToClipDTO(c *model.Clip) (*ClipDTO, error) {
	out := &ClipDTO{}
	if err := copier.Copy(out, c); err != nil {
		return nil, err
	}
	out.PostedAt = c.PostedAt.UTC().Format(time.RFC3339)
	if c.User != nil {
		out.Creator = CreatorDTO{Username: c.User.Username, Avatar: c.User.Avatar}
	}
	if out.Creator.Username == "" {
		out.Creator.Username = consts.DefaultUsername
	}
	return out, nil
}
