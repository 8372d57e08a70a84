package service

import (
	"strings"

	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/util/crypto"

	"github.com/xlzd/gotp"
	"gorm.io/gorm"
)

type ProfileService struct {
	settingService SettingService
}

// Register creates a new lector profile. The role is fixed here: nothing
// reachable from the web can create an admin.
func (s *ProfileService) Register(username, email, password string) (*model.Profile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleLector,
	}

	db := database.GetDB()
	if err := db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CheckProfile verifies credentials and, when two-factor login is enabled,
// the TOTP code. Returns nil on any failure.
func (s *ProfileService) CheckProfile(username, password, twoFactorCode string) *model.Profile {
	db := database.GetDB()

	profile := &model.Profile{}
	err := db.Model(model.Profile{}).
		Where("username = ?", username).
		First(profile).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("check profile err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(profile.PasswordHash, password) {
		return nil
	}

	twoFactorEnable, err := s.settingService.GetTwoFactorEnable()
	if err != nil {
		logger.Warning("check two factor err:", err)
		return nil
	}

	if twoFactorEnable && profile.Role == model.RoleAdmin {
		// A per-profile seed wins over the site-wide token.
		twoFactorToken := profile.LoginSecret
		if twoFactorToken == "" {
			twoFactorToken, err = s.settingService.GetTwoFactorToken()
			if err != nil {
				logger.Warning("check two factor token err:", err)
				return nil
			}
		}

		if gotp.NewDefaultTOTP(twoFactorToken).Now() != twoFactorCode {
			return nil
		}
	}

	return profile
}

func (s *ProfileService) GetProfile(id int) (*model.Profile, error) {
	db := database.GetDB()

	profile := &model.Profile{}
	err := db.Model(model.Profile{}).
		Where("id = ?", id).
		First(profile).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return profile, nil
}

// SetRole changes a profile's role. Only reachable from the CLI; roles are
// never self-assignable through the web.
func (s *ProfileService) SetRole(username string, role model.Role) error {
	if role != model.RoleAdmin && role != model.RoleLector {
		return ErrValidation
	}

	db := database.GetDB()
	result := db.Model(model.Profile{}).
		Where("username = ?", username).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLoginSecret stores a profile's personal TOTP seed. An empty secret
// falls back to the site-wide token again. Only reachable from the CLI.
func (s *ProfileService) SetLoginSecret(username, secret string) error {
	db := database.GetDB()
	result := db.Model(model.Profile{}).
		Where("username = ?", username).
		Update("login_secret", secret)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword rehashes and stores a new password for a profile.
func (s *ProfileService) UpdatePassword(username, password string) error {
	if password == "" {
		return ErrValidation
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	db := database.GetDB()
	result := db.Model(model.Profile{}).
		Where("username = ?", username).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
