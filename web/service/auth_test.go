package service

import (
	"testing"

	"github.com/MindDevsDavid/DragonScan/database/model"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizePublic(t *testing.T) {
	service := AuthService{}

	assert.NoError(t, service.Authorize(nil, AccessPublic))
}

func TestAuthorizeAuthenticated(t *testing.T) {
	service := AuthService{}

	err := service.Authorize(nil, AccessAuthenticated)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	profile := &model.Profile{Id: 1, Username: "lector1", Role: model.RoleLector}
	assert.NoError(t, service.Authorize(profile, AccessAuthenticated))
}

func TestAuthorizeAdmin(t *testing.T) {
	setup()
	defer teardown()

	authService := AuthService{}
	profileService := ProfileService{}

	lector, err := profileService.Register("lector1", "", "secreto")
	assert.NoError(t, err)

	err = authService.Authorize(lector, AccessAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := profileService.CheckProfile("admin", "admin", "")
	assert.NotNil(t, admin)
	assert.NoError(t, authService.Authorize(admin, AccessAdmin))

	err = authService.Authorize(nil, AccessAdmin)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthorizeAdminRoleFromDatabase(t *testing.T) {
	setup()
	defer teardown()

	authService := AuthService{}
	profileService := ProfileService{}

	lector, err := profileService.Register("lector1", "", "secreto")
	assert.NoError(t, err)

	// A cookie claiming the admin role does not grant access; the stored
	// role wins.
	forged := *lector
	forged.Role = model.RoleAdmin
	err = authService.Authorize(&forged, AccessAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	// A cookie for a deleted profile is just not authenticated.
	ghost := &model.Profile{Id: 404, Username: "ghost", Role: model.RoleAdmin}
	err = authService.Authorize(ghost, AccessAdmin)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
