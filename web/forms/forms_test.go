package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func registrationForm(taken map[string]bool) *Form {
	return New(
		Field{Name: "username", Rules: []Rule{
			Required(),
			MaxLength(20),
			Check(func(v string) bool { return !taken[v] }, "form.usernameTaken"),
		}},
		Field{Name: "password", Rules: []Rule{Required()}},
		Field{Name: "confirm", Rules: []Rule{Required(), MatchField("password")}},
	)
}

func TestHandleSuccessReturnsTrimmedData(t *testing.T) {
	form := registrationForm(nil)

	data, errs := form.Handle(url.Values{
		"username": {"  alice  "},
		"password": {"pw1234"},
		"confirm":  {"pw1234"},
	})
	assert.Nil(t, errs)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "pw1234", data["password"])
}

func TestHandleAccumulatesFieldErrors(t *testing.T) {
	form := registrationForm(nil)

	data, errs := form.Handle(url.Values{
		"username": {""},
		"password": {"pw1234"},
		"confirm":  {"different"},
	})
	assert.Nil(t, data)
	assert.Len(t, errs, 2)
	assert.NotEmpty(t, errs["username"])
	assert.NotEmpty(t, errs["confirm"])
	assert.Empty(t, errs["password"])
}

func TestFirstFailingRuleWins(t *testing.T) {
	form := registrationForm(map[string]bool{"taken": true})

	// Too long and taken: the length rule runs first.
	_, errs := form.Handle(url.Values{
		"username": {"an-unreasonably-long-username"},
		"password": {"pw"},
		"confirm":  {"pw"},
	})
	assert.NotEmpty(t, errs["username"])

	_, errs = form.Handle(url.Values{
		"username": {"taken"},
		"password": {"pw"},
		"confirm":  {"pw"},
	})
	assert.NotEmpty(t, errs["username"])
}

func TestRequiredRejectsWhitespace(t *testing.T) {
	form := New(Field{Name: "content", Rules: []Rule{Required()}})

	_, errs := form.Handle(url.Values{"content": {"   "}})
	assert.NotEmpty(t, errs["content"])

	data, errs := form.Handle(url.Values{"content": {"hello"}})
	assert.Nil(t, errs)
	assert.Equal(t, "hello", data["content"])
}

func TestMaxLengthCountsRunes(t *testing.T) {
	form := New(Field{Name: "username", Rules: []Rule{MaxLength(4)}})

	_, errs := form.Handle(url.Values{"username": {"абвг"}})
	assert.Nil(t, errs)

	_, errs = form.Handle(url.Values{"username": {"абвгд"}})
	assert.NotEmpty(t, errs["username"])
}
