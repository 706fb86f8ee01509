// Package web provides the web server for the forum: HTTP serving, routing,
// templates and background job scheduling.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net"
	"net/http"

	"github.com/forumkit/forumkit/config"
	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/util/common"
	"github.com/forumkit/forumkit/util/random"
	"github.com/forumkit/forumkit/web/controller"
	"github.com/forumkit/forumkit/web/job"
	"github.com/forumkit/forumkit/web/locale"
	"github.com/forumkit/forumkit/web/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

// Server is the forum web server with its controllers and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index *controller.IndexController
	forum *controller.ForumController
	api   *controller.APIController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// getHtmlTemplate parses the embedded HTML templates.
func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html")
}

// initRouter initializes gin, registers middleware, templates and
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	secret := config.GetSessionSecret()
	if secret == "" {
		secret = random.Seq(64)
		logger.Warning("FORUM_SESSION_SECRET not set, using an ephemeral secret; sessions will not survive restarts")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions(config.GetName(), store))

	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.RequestId())

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	engine.Use(locale.LocalizerMiddleware())

	funcMap := template.FuncMap{
		"i18n":       locale.I18n,
		"formattime": common.FormatTimeAgo,
	}
	t, err := s.getHtmlTemplate(funcMap)
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(t)

	g := engine.Group("/")

	s.index = controller.NewIndexController(g)
	s.forum = controller.NewForumController(g)
	s.api = controller.NewAPIController(g)

	return engine, nil
}

// startJobs schedules the recurring background jobs.
func (s *Server) startJobs() {
	s.cron = cron.New()
	s.cron.AddJob("@every 30m", job.NewActivityStatsJob())
	s.cron.AddJob("@daily", job.NewCheckpointJob())
	s.cron.Start()
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() (err error) {
	// Ensure the cleanup in case of error
	defer func() {
		if err != nil {
			s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", config.GetListen())
	if err != nil {
		return err
	}
	s.listener = listener

	s.startJobs()

	s.httpServer = &http.Server{Handler: engine}
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("serve err:", err)
		}
	}()

	logger.Infof("web server running on %s", listener.Addr().String())
	return nil
}

// Stop shuts down the web server and its background jobs.
func (s *Server) Stop() error {
	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}
