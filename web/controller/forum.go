package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/web/forms"
	"github.com/forumkit/forumkit/web/service"
	"github.com/forumkit/forumkit/web/session"

	"github.com/gin-gonic/gin"
)

// ForumController handles the topic list, topic pages and posting.
type ForumController struct {
	BaseController

	topicService service.TopicService
}

// NewForumController creates a new ForumController and initializes its routes.
func NewForumController(g *gin.RouterGroup) *ForumController {
	a := &ForumController{}
	a.initRouter(g)
	return a
}

func (a *ForumController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.topics)
	g.GET("/topic/new", a.newTopicForm)
	g.POST("/topic/new", a.checkLogin, a.newTopic)
	g.GET("/topic/:topicId", a.topic)
	g.POST("/topic/:topicId", a.checkLogin, a.reply)
}

func (a *ForumController) newTopicFormDef() *forms.Form {
	return forms.New(
		forms.Field{Name: "subject", Rules: []forms.Rule{forms.Required()}},
		forms.Field{Name: "content", Rules: []forms.Rule{forms.Required()}},
	)
}

func (a *ForumController) replyFormDef() *forms.Form {
	return forms.New(
		forms.Field{Name: "content", Rules: []forms.Rule{forms.Required()}},
	)
}

// topics renders the topic list ordered by most recent activity, each entry
// enriched with its reply count and last reply time.
func (a *ForumController) topics(c *gin.Context) {
	topics, err := a.topicService.ListEnrichedTopics()
	if err != nil {
		logger.Error("list topics err:", err)
		c.String(http.StatusInternalServerError, I18nWeb(c, "toasts.internalError"))
		return
	}
	html(c, "topics.html", "pages.topics.title", gin.H{
		"topics": topics,
	})
}

func (a *ForumController) newTopicForm(c *gin.Context) {
	html(c, "newtopic.html", "pages.newTopic.title", nil)
}

func (a *ForumController) newTopic(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		htmlStatus(c, http.StatusBadRequest, "newtopic.html", "pages.newTopic.title", nil)
		return
	}

	data, fieldErrs := a.newTopicFormDef().Handle(c.Request.PostForm)
	if fieldErrs != nil {
		html(c, "newtopic.html", "pages.newTopic.title", gin.H{
			"errors": fieldErrs,
			"values": c.Request.PostForm,
		})
		return
	}

	user := session.GetLoginUser(c)
	topicId, err := a.topicService.PostTopic(data["subject"], data["content"], user.Username)
	if err != nil {
		logger.Error("post topic err:", err)
		session.FlashError(c, I18nWeb(c, "toasts.internalError"))
		htmlStatus(c, http.StatusInternalServerError, "newtopic.html", "pages.newTopic.title", nil)
		return
	}

	session.FlashInfo(c, I18nWeb(c, "toasts.topicPosted"))
	c.Redirect(http.StatusFound, "/topic/"+strconv.Itoa(topicId))
}

// topic renders a single topic with its replies ascending by time, plus the
// inline reply form.
func (a *ForumController) topic(c *gin.Context) {
	topicId, err := strconv.Atoi(c.Param("topicId"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	a.renderTopic(c, topicId, nil, nil)
}

func (a *ForumController) reply(c *gin.Context) {
	topicId, err := strconv.Atoi(c.Param("topicId"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	data, fieldErrs := a.replyFormDef().Handle(c.Request.PostForm)
	if fieldErrs != nil {
		a.renderTopic(c, topicId, fieldErrs, c.Request.PostForm)
		return
	}

	user := session.GetLoginUser(c)
	_, err = a.topicService.PostReply(topicId, data["content"], user.Username)
	if errors.Is(err, service.ErrTopicNotFound) {
		c.Status(http.StatusNotFound)
		return
	} else if err != nil {
		logger.Error("post reply err:", err)
		session.FlashError(c, I18nWeb(c, "toasts.internalError"))
		a.renderTopic(c, topicId, nil, nil)
		return
	}

	session.FlashInfo(c, I18nWeb(c, "toasts.replyPosted"))
	a.renderTopic(c, topicId, nil, nil)
}

func (a *ForumController) renderTopic(c *gin.Context, topicId int, fieldErrs forms.Errors, values any) {
	topic, err := a.topicService.GetTopic(topicId)
	if errors.Is(err, service.ErrTopicNotFound) {
		c.Status(http.StatusNotFound)
		return
	} else if err != nil {
		logger.Error("get topic err:", err)
		c.String(http.StatusInternalServerError, I18nWeb(c, "toasts.internalError"))
		return
	}

	replies, err := a.topicService.ListReplies(topicId)
	if err != nil {
		logger.Error("list replies err:", err)
		c.String(http.StatusInternalServerError, I18nWeb(c, "toasts.internalError"))
		return
	}

	html(c, "topic.html", "", gin.H{
		"title":   topic.Subject,
		"topic":   topic,
		"replies": replies,
		"errors":  fieldErrs,
		"values":  values,
	})
}
