package service

import (
	"os"
	"sync"
	"testing"

	"github.com/forumkit/forumkit/database"
	"github.com/forumkit/forumkit/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) {
	os.Setenv("FORUM_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)

	dbPath := "test.db"
	os.Remove(dbPath)
	err := database.InitDB(dbPath)
	assert.NoError(t, err)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func TestUserService(t *testing.T) {
	setup(t)
	defer teardown()

	service := UserService{}

	// Register
	user, err := service.Register("alice", "pw1234")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw1234", user.PasswordHash)

	// Correct credentials
	checked, err := service.CheckUser("alice", "pw1234")
	assert.NoError(t, err)
	assert.Equal(t, "alice", checked.Username)

	// Wrong password and unknown user are indistinguishable
	_, errWrongPass := service.CheckUser("alice", "wrongpass")
	_, errNoUser := service.CheckUser("nouser", "x")
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)

	// Duplicate username
	_, err = service.Register("alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// Username length limit
	_, err = service.Register("a-very-long-username-here", "pw")
	assert.ErrorIs(t, err, ErrUsernameTooLong)

	// Availability fast path
	free, err := service.IsUsernameFree("alice")
	assert.NoError(t, err)
	assert.False(t, free)
	free, err = service.IsUsernameFree("bob")
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	setup(t)
	defer teardown()

	service := UserService{}
	_, err := service.Register("carol", "secret-password")
	assert.NoError(t, err)

	stored, err := service.GetUser("carol")
	assert.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "secret-password")
}

func TestConcurrentRegistrationSameUsername(t *testing.T) {
	setup(t)
	defer teardown()

	service := UserService{}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Register("dave", "pw")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	// Never both succeed; the unique index is the authority.
	assert.LessOrEqual(t, successes, 1)

	free, err := service.IsUsernameFree("dave")
	assert.NoError(t, err)
	if successes == 1 {
		assert.False(t, free)
	}
}

func TestResetPassword(t *testing.T) {
	setup(t)
	defer teardown()

	service := UserService{}
	_, err := service.Register("erin", "oldpass")
	assert.NoError(t, err)

	assert.NoError(t, service.ResetPassword("erin", "newpass"))

	_, err = service.CheckUser("erin", "oldpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.CheckUser("erin", "newpass")
	assert.NoError(t, err)

	assert.Error(t, service.ResetPassword("ghost", "x"))
}
