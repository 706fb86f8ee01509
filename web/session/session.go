// Package session provides helpers for the login session and one-shot flash
// messages stored in the cookie session.
package session

import (
	"encoding/gob"

	"github.com/forumkit/forumkit/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginUser = "LOGIN_USER"

const (
	flashInfo  = "_flash_info"
	flashError = "_flash_error"
)

func init() {
	gob.Register(model.User{})
}

// SetLoginUser stores the user in the session. The password hash is blanked
// first; it has no business living in a cookie.
func SetLoginUser(c *gin.Context, user *model.User) error {
	u := *user
	u.PasswordHash = ""
	s := sessions.Default(c)
	s.Set(loginUser, u)
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// ClearLoginUser removes the login user from the session, keeping the
// session itself (and any queued flashes) alive.
func ClearLoginUser(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(loginUser)
	return s.Save()
}

// FlashInfo queues an informational message shown on the next rendered page.
func FlashInfo(c *gin.Context, msg string) {
	addFlash(c, flashInfo, msg)
}

// FlashError queues an error message shown on the next rendered page.
func FlashError(c *gin.Context, msg string) {
	addFlash(c, flashError, msg)
}

func addFlash(c *gin.Context, key, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg, key)
	_ = s.Save()
}

// Flash is a one-shot message with a category of "info" or "error".
type Flash struct {
	Category string
	Message  string
}

// TakeFlashes drains and returns all queued flash messages, errors first.
func TakeFlashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	var flashes []Flash
	for _, v := range s.Flashes(flashError) {
		if msg, ok := v.(string); ok {
			flashes = append(flashes, Flash{Category: "error", Message: msg})
		}
	}
	for _, v := range s.Flashes(flashInfo) {
		if msg, ok := v.(string); ok {
			flashes = append(flashes, Flash{Category: "info", Message: msg})
		}
	}
	_ = s.Save()
	return flashes
}
