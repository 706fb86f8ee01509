// Package model defines the database models for the forum: users, topics and
// replies.
package model

// User is a registered account. Usernames are unique and at most 20
// characters; only the bcrypt hash of the password is ever stored.
type User struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
}

// Topic is a discussion thread. Every topic is created together with its
// originating reply, so a topic always owns at least one reply.
type Topic struct {
	Id      int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Subject string  `json:"subject" gorm:"not null"`
	Replies []Reply `json:"-" gorm:"foreignKey:TopicId;references:Id"`
}

// Reply is a single post within a topic. Time is a unix timestamp in seconds;
// replies with equal timestamps are ordered by Id (insertion order).
type Reply struct {
	Id      int    `json:"id" gorm:"primaryKey;autoIncrement"`
	TopicId int    `json:"topicId" gorm:"index;not null"`
	Time    int64  `json:"time" gorm:"not null"`
	Content string `json:"content" gorm:"not null"`
	Author  string `json:"author" gorm:"size:20;not null"`
}
