package session

import (
	"encoding/gob"

	"github.com/MindDevsDavid/DragonScan/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginProfile = "LOGIN_PROFILE"

func init() {
	gob.Register(model.Profile{})
}

func SetLoginProfile(c *gin.Context, profile *model.Profile) error {
	s := sessions.Default(c)
	s.Set(loginProfile, profile)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: maxAge,
	})
	return s.Save()
}

func GetLoginProfile(c *gin.Context) *model.Profile {
	s := sessions.Default(c)
	if obj := s.Get(loginProfile); obj != nil {
		if profile, ok := obj.(model.Profile); ok {
			return &profile
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginProfile(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie("dragonscan", "", -1, "/", "", false, true)
	return nil
}
