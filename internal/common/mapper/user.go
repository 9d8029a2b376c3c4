package mapper

import (
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
)

func UserToDTO(user userdomain.User) dto.User {
	return dto.User{
		ID:        string(user.ID),
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		DOB:       validation.FormatDate(user.DOB),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
