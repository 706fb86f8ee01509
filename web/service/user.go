// Package service implements the forum's business logic on top of the
// database package.
package service

import (
	"errors"

	"github.com/forumkit/forumkit/database"
	"github.com/forumkit/forumkit/database/model"
	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/util/crypto"
)

// MaxUsernameLen is the hard limit on username length, enforced both by form
// validation and here before the insert.
const MaxUsernameLen = 20

var (
	// ErrUsernameTaken is returned when registering a username that already
	// exists. The database unique index is the authority; the form-level
	// availability check is only a fast path.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so a caller cannot tell which one failed.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUsernameTooLong is returned when the username exceeds MaxUsernameLen.
	ErrUsernameTooLong = errors.New("username too long")
)

type UserService struct{}

// Register creates a new account with a bcrypt-hashed password. The plaintext
// password is never stored.
func (s *UserService) Register(username string, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password can not be empty")
	}
	if len([]rune(username)) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// CheckUser verifies the credentials and returns the user on success. A
// missing user and a wrong password are indistinguishable to the caller.
func (s *UserService) CheckUser(username string, password string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser fetches a user by username.
func (s *UserService) GetUser(username string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// IsUsernameFree reports whether no user with the given username exists. It
// is a best-effort check for form validation; Register still treats a
// duplicate insert as ErrUsernameTaken.
func (s *UserService) IsUsernameFree(username string) (bool, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.User{}).
		Where("username = ?", username).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// ResetPassword stores a new bcrypt hash for an existing user. Used by the
// CLI only.
func (s *UserService) ResetPassword(username string, password string) error {
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	db := database.GetDB()
	result := db.Model(model.User{}).
		Where("username = ?", username).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("no such user")
	}
	return nil
}
