package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/forumkit/forumkit/web/service"

	"github.com/gin-gonic/gin"
)

// APIController exposes read-only JSON endpoints mirroring the HTML views.
type APIController struct {
	BaseController

	topicService service.TopicService
}

// NewAPIController creates a new APIController and initializes its routes.
func NewAPIController(g *gin.RouterGroup) *APIController {
	a := &APIController{}
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	api := g.Group("/api")

	api.GET("/topics", a.topics)
	api.GET("/topic/:topicId", a.topic)
}

func (a *APIController) topics(c *gin.Context) {
	topics, err := a.topicService.ListEnrichedTopics()
	jsonObj(c, topics, err)
}

func (a *APIController) topic(c *gin.Context) {
	topicId, err := strconv.Atoi(c.Param("topicId"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	topic, err := a.topicService.GetTopic(topicId)
	if errors.Is(err, service.ErrTopicNotFound) {
		c.Status(http.StatusNotFound)
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	replies, err := a.topicService.ListReplies(topicId)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	jsonObj(c, gin.H{
		"topic":   topic,
		"replies": replies,
	}, nil)
}
