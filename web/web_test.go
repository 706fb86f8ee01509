package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/forumkit/forumkit/config"
	"github.com/forumkit/forumkit/database"
	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/web/service"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

type client struct {
	t       *testing.T
	engine  http.Handler
	cookies map[string]string
}

func newTestRouter(t *testing.T) *client {
	os.Setenv("FORUM_LOG_FOLDER", t.TempDir())
	os.Setenv("FORUM_SESSION_SECRET", "test-secret")
	logger.InitLogger(logging.ERROR)

	dbPath := "test.db"
	os.Remove(dbPath)
	err := database.InitDB(dbPath)
	assert.NoError(t, err)
	t.Cleanup(func() {
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove(dbPath)
	})

	engine, err := NewServer().initRouter()
	assert.NoError(t, err)

	return &client{t: t, engine: engine, cookies: make(map[string]string)}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		c.cookies[cookie.Name] = cookie.Value
	}
	return w
}

func TestAnonymousMutationIsForbidden(t *testing.T) {
	c := newTestRouter(t)

	w := c.do(http.MethodPost, "/topic/new", url.Values{
		"subject": {"Hello"},
		"content": {"First post"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No topic or reply row may have been created.
	topicService := service.TopicService{}
	topics, replies, err := topicService.Totals()
	assert.NoError(t, err)
	assert.Zero(t, topics)
	assert.Zero(t, replies)

	w = c.do(http.MethodPost, "/topic/1", url.Values{"content": {"reply"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMissingTopicIsNotFound(t *testing.T) {
	c := newTestRouter(t)

	w := c.do(http.MethodGet, "/topic/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/topic/notanumber", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/api/topic/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterLoginPostFlow(t *testing.T) {
	c := newTestRouter(t)

	// Register redirects to the login page.
	w := c.do(http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"password": {"pw1234"},
		"confirm":  {"pw1234"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// Login establishes the session.
	w = c.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"pw1234"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEmpty(t, c.cookies[config.GetName()])

	// The flash from the login shows up once on the next page.
	w = c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful.")
	w = c.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Login successful.")

	// Posting a topic redirects to its page.
	w = c.do(http.MethodPost, "/topic/new", url.Values{
		"subject": {"Hello"},
		"content": {"First post"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/topic/1", w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/topic/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First post")

	// A reply renders on the topic page.
	w = c.do(http.MethodPost, "/topic/1", url.Values{"content": {"Second post"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Second post")

	// Topic list shows one reply, the originating one excluded.
	w = c.do(http.MethodGet, "/api/topics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"replies":1`)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	c := newTestRouter(t)

	w := c.do(http.MethodPost, "/register", url.Values{
		"username": {"bob"},
		"password": {"pw1234"},
		"confirm":  {"pw1234"},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	// Unknown user and wrong password render the same generic message.
	wrongs := []url.Values{
		{"username": {"bob"}, "password": {"nope"}},
		{"username": {"nouser"}, "password": {"nope"}},
	}
	for _, form := range wrongs {
		w := c.do(http.MethodPost, "/login", form)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Incorrect username or password.")
		assert.Empty(t, w.Header().Get("Location"))
	}
}

func TestRegisterValidation(t *testing.T) {
	c := newTestRouter(t)

	// Mismatched confirmation and over-long username redisplay the form.
	w := c.do(http.MethodPost, "/register", url.Values{
		"username": {"a-username-well-beyond-twenty-characters"},
		"password": {"pw1234"},
		"confirm":  {"other"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "at most 20 characters")
	assert.Contains(t, body, "Does not match")

	// Duplicate username is a field error on redisplay.
	for i := 0; i < 2; i++ {
		w = c.do(http.MethodPost, "/register", url.Values{
			"username": {"carol"},
			"password": {"pw"},
			"confirm":  {"pw"},
		})
	}
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username already taken.")
}
