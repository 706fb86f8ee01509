package controller

import (
	"errors"
	"net/http"

	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/web/forms"
	"github.com/forumkit/forumkit/web/service"
	"github.com/forumkit/forumkit/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController handles login, logout and registration.
type IndexController struct {
	BaseController

	userService service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/login", a.loginForm)
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)
	g.GET("/register", a.registerForm)
	g.POST("/register", a.register)
}

func (a *IndexController) loginFormDef() *forms.Form {
	return forms.New(
		forms.Field{Name: "username", Rules: []forms.Rule{forms.Required()}},
		forms.Field{Name: "password", Rules: []forms.Rule{forms.Required()}},
	)
}

func (a *IndexController) registerFormDef() *forms.Form {
	usernameFree := func(username string) bool {
		free, err := a.userService.IsUsernameFree(username)
		if err != nil {
			logger.Warning("username availability check err:", err)
			// The unique index still rejects duplicates at insert time.
			return true
		}
		return free
	}
	return forms.New(
		forms.Field{Name: "username", Rules: []forms.Rule{
			forms.Required(),
			forms.MaxLength(service.MaxUsernameLen),
			forms.Check(usernameFree, "form.usernameTaken"),
		}},
		forms.Field{Name: "password", Rules: []forms.Rule{forms.Required()}},
		forms.Field{Name: "confirm", Rules: []forms.Rule{
			forms.Required(),
			forms.MatchField("password"),
		}},
	)
}

func (a *IndexController) loginForm(c *gin.Context) {
	html(c, "login.html", "pages.login.title", nil)
}

// login verifies the submitted credentials and stores the user in the
// session. Both an unknown username and a wrong password produce the same
// generic message.
func (a *IndexController) login(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		htmlStatus(c, http.StatusBadRequest, "login.html", "pages.login.title", nil)
		return
	}

	data, fieldErrs := a.loginFormDef().Handle(c.Request.PostForm)
	if fieldErrs != nil {
		html(c, "login.html", "pages.login.title", gin.H{
			"errors": fieldErrs,
			"values": c.Request.PostForm,
		})
		return
	}

	user, err := a.userService.CheckUser(data["username"], data["password"])
	if errors.Is(err, service.ErrInvalidCredentials) {
		logger.Warningf("failed login for %q, IP: %q", data["username"], getRemoteIp(c))
		session.FlashError(c, I18nWeb(c, "toasts.wrongCredentials"))
		html(c, "login.html", "pages.login.title", gin.H{
			"values": c.Request.PostForm,
		})
		return
	} else if err != nil {
		logger.Error("login err:", err)
		session.FlashError(c, I18nWeb(c, "toasts.internalError"))
		htmlStatus(c, http.StatusInternalServerError, "login.html", "pages.login.title", nil)
		return
	}

	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("Unable to save session:", err)
	}
	logger.Infof("%s logged in successfully, IP: %s", user.Username, getRemoteIp(c))

	session.FlashInfo(c, I18nWeb(c, "toasts.loginSuccess"))
	c.Redirect(http.StatusFound, "/")
}

func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	if err := session.ClearLoginUser(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	session.FlashInfo(c, I18nWeb(c, "toasts.loggedOut"))
	c.Redirect(http.StatusFound, "/")
}

func (a *IndexController) registerForm(c *gin.Context) {
	html(c, "register.html", "pages.register.title", nil)
}

func (a *IndexController) register(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		htmlStatus(c, http.StatusBadRequest, "register.html", "pages.register.title", nil)
		return
	}

	data, fieldErrs := a.registerFormDef().Handle(c.Request.PostForm)
	if fieldErrs != nil {
		html(c, "register.html", "pages.register.title", gin.H{
			"errors": fieldErrs,
			"values": c.Request.PostForm,
		})
		return
	}

	_, err := a.userService.Register(data["username"], data["password"])
	if errors.Is(err, service.ErrUsernameTaken) {
		// Lost the race against a concurrent registration.
		html(c, "register.html", "pages.register.title", gin.H{
			"errors": forms.Errors{"username": I18nWeb(c, "form.usernameTaken")},
			"values": c.Request.PostForm,
		})
		return
	} else if err != nil {
		logger.Error("register err:", err)
		session.FlashError(c, I18nWeb(c, "toasts.internalError"))
		htmlStatus(c, http.StatusInternalServerError, "register.html", "pages.register.title", nil)
		return
	}

	logger.Infof("new account %q registered, IP: %s", data["username"], getRemoteIp(c))
	session.FlashInfo(c, I18nWeb(c, "toasts.accountCreated"))
	c.Redirect(http.StatusFound, "/login")
}
