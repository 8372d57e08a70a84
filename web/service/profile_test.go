package service

import (
	"testing"

	"github.com/MindDevsDavid/DragonScan/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/xlzd/gotp"
)

func TestRegisterCreatesLector(t *testing.T) {
	setup()
	defer teardown()

	service := ProfileService{}

	profile, err := service.Register("lector1", "lector1@example.com", "secreto")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleLector, profile.Role)
	assert.NotEqual(t, "secreto", profile.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	setup()
	defer teardown()

	service := ProfileService{}

	_, err := service.Register("", "", "secreto")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Register("lector1", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setup()
	defer teardown()

	service := ProfileService{}

	_, err := service.Register("lector1", "", "secreto")
	assert.NoError(t, err)

	_, err = service.Register("lector1", "", "otro")
	assert.Error(t, err)
}

func TestCheckProfile(t *testing.T) {
	setup()
	defer teardown()

	service := ProfileService{}

	// The seeded administrator can log in with the default credentials.
	profile := service.CheckProfile("admin", "admin", "")
	assert.NotNil(t, profile)
	assert.Equal(t, model.RoleAdmin, profile.Role)

	assert.Nil(t, service.CheckProfile("admin", "wrong", ""))
	assert.Nil(t, service.CheckProfile("nobody", "admin", ""))
}

func TestCheckProfileTwoFactor(t *testing.T) {
	setup()
	defer teardown()

	profileService := ProfileService{}
	settingService := SettingService{}

	assert.NoError(t, settingService.SetTwoFactorEnable(true))

	// The personal seed set through the CLI wins over the site-wide token.
	seed := gotp.RandomSecret(16)
	assert.NoError(t, profileService.SetLoginSecret("admin", seed))

	code := gotp.NewDefaultTOTP(seed).Now()
	assert.NotNil(t, profileService.CheckProfile("admin", "admin", code))

	wrongCode := "000000"
	if wrongCode == code {
		wrongCode = "111111"
	}
	assert.Nil(t, profileService.CheckProfile("admin", "admin", wrongCode))

	// Without a personal seed the site-wide token is checked instead.
	siteToken := gotp.RandomSecret(16)
	assert.NoError(t, settingService.SetTwoFactorToken(siteToken))
	assert.NoError(t, profileService.SetLoginSecret("admin", ""))
	siteCode := gotp.NewDefaultTOTP(siteToken).Now()
	assert.NotNil(t, profileService.CheckProfile("admin", "admin", siteCode))

	err := profileService.SetLoginSecret("nobody", seed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	setup()
	defer teardown()

	service := ProfileService{}

	err := service.UpdatePassword("admin", "nuevo")
	assert.NoError(t, err)

	assert.Nil(t, service.CheckProfile("admin", "admin", ""))
	assert.NotNil(t, service.CheckProfile("admin", "nuevo", ""))

	err = service.UpdatePassword("nobody", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	err = service.UpdatePassword("admin", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetRole(t *testing.T) {
	setup()
	defer teardown()

	service := ProfileService{}

	_, err := service.Register("lector1", "", "secreto")
	assert.NoError(t, err)

	err = service.SetRole("lector1", model.RoleAdmin)
	assert.NoError(t, err)

	promoted := service.CheckProfile("lector1", "secreto", "")
	assert.NotNil(t, promoted)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	err = service.SetRole("nobody", model.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)

	err = service.SetRole("lector1", "moder")
	assert.ErrorIs(t, err, ErrValidation)
}
