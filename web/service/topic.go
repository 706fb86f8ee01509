package service

import (
	"errors"
	"sync"
	"time"

	"github.com/forumkit/forumkit/database"
	"github.com/forumkit/forumkit/database/model"
	"github.com/forumkit/forumkit/util/common"

	"gorm.io/gorm"
)

var (
	// ErrTopicNotFound is returned when the referenced topic does not exist.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrTopicInconsistent is returned when a topic has no replies at all,
	// which the posting protocol is supposed to make impossible.
	ErrTopicInconsistent = errors.New("topic has no originating reply")
)

// EnrichedTopic is a topic augmented with the derived values shown on the
// topic list: the reply count excluding the originating reply, and the time
// of the most recent reply.
type EnrichedTopic struct {
	Id            int    `json:"id"`
	Subject       string `json:"subject"`
	Replies       int64  `json:"replies"`
	LastReplyTime int64  `json:"lastReplyTime"`
}

type TopicService struct{}

// PostTopic creates a topic together with its originating reply in one
// transaction, so no reader can ever observe a topic without a reply. It
// returns the new topic id.
func (s *TopicService) PostTopic(subject string, content string, author string) (int, error) {
	if subject == "" || content == "" {
		return 0, errors.New("subject and content can not be empty")
	}

	topic := &model.Topic{Subject: subject}
	now := time.Now().Unix()

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(topic).Error; err != nil {
			return err
		}
		reply := &model.Reply{
			TopicId: topic.Id,
			Time:    now,
			Content: content,
			Author:  author,
		}
		return tx.Create(reply).Error
	})
	if err != nil {
		return 0, common.NewErrorf("post topic %q: %v", subject, err)
	}
	return topic.Id, nil
}

// PostReply appends a reply to an existing topic. The topic existence check
// and the insert run in the same transaction, so a reply can not be attached
// to a topic id that was never created.
func (s *TopicService) PostReply(topicId int, content string, author string) (int, error) {
	if content == "" {
		return 0, errors.New("content can not be empty")
	}

	reply := &model.Reply{
		TopicId: topicId,
		Time:    time.Now().Unix(),
		Content: content,
		Author:  author,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model.Topic{}).Where("id = ?", topicId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTopicNotFound
		}
		return tx.Create(reply).Error
	})
	if err != nil {
		return 0, err
	}
	return reply.Id, nil
}

// GetTopic fetches a topic by id.
func (s *TopicService) GetTopic(topicId int) (*model.Topic, error) {
	db := database.GetDB()
	topic := &model.Topic{}
	err := db.First(topic, topicId).Error
	if database.IsNotFound(err) {
		return nil, ErrTopicNotFound
	} else if err != nil {
		return nil, err
	}
	return topic, nil
}

// ListReplies returns the replies of a topic ordered by time ascending, ties
// broken by insertion order.
func (s *TopicService) ListReplies(topicId int) ([]model.Reply, error) {
	db := database.GetDB()
	var replies []model.Reply
	err := db.Model(model.Reply{}).
		Where("topic_id = ?", topicId).
		Order("time ASC, id ASC").
		Find(&replies).
		Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// CountReplies returns the total number of replies of a topic, including the
// originating one.
func (s *TopicService) CountReplies(topicId int) (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.Reply{}).
		Where("topic_id = ?", topicId).
		Count(&count).
		Error
	return count, err
}

// LastReplyTime returns the time of the most recent reply of a topic.
func (s *TopicService) LastReplyTime(topicId int) (int64, error) {
	db := database.GetDB()
	var last int64
	err := db.Model(model.Reply{}).
		Where("topic_id = ?", topicId).
		Select("COALESCE(MAX(time), 0)").
		Scan(&last).
		Error
	return last, err
}

// ListTopicsByActivity returns all topics ordered by their most recent reply
// time, newest first.
func (s *TopicService) ListTopicsByActivity() ([]model.Topic, error) {
	db := database.GetDB()
	var topics []model.Topic
	err := db.Model(model.Topic{}).
		Order("(SELECT MAX(time) FROM replies WHERE replies.topic_id = topics.id) DESC").
		Find(&topics).
		Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// Enrich computes the displayed reply count and last reply time for each
// topic. The lookups are independent, so they fan out concurrently, one
// goroutine per topic; each goroutine writes only its own slice index, which
// keeps the output aligned with the input. Count and max come from a single
// statement per topic, so each entry's pair is internally consistent.
func (s *TopicService) Enrich(topics []model.Topic) ([]EnrichedTopic, error) {
	enriched := make([]EnrichedTopic, len(topics))
	errs := make([]error, len(topics))

	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic model.Topic) {
			defer wg.Done()

			var agg struct {
				ReplyCount int64
				LastTime   int64
			}
			err := database.GetDB().Model(model.Reply{}).
				Where("topic_id = ?", topic.Id).
				Select("COUNT(*) AS reply_count, COALESCE(MAX(time), 0) AS last_time").
				Scan(&agg).
				Error
			if err != nil {
				errs[i] = err
				return
			}
			if agg.ReplyCount == 0 {
				errs[i] = common.NewErrorf("topic %d: %v", topic.Id, ErrTopicInconsistent)
				return
			}

			enriched[i] = EnrichedTopic{
				Id:            topic.Id,
				Subject:       topic.Subject,
				Replies:       agg.ReplyCount - 1,
				LastReplyTime: agg.LastTime,
			}
		}(i, topic)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return enriched, nil
}

// ListEnrichedTopics is the topic-list read path: topics by recent activity,
// each with its aggregates.
func (s *TopicService) ListEnrichedTopics() ([]EnrichedTopic, error) {
	topics, err := s.ListTopicsByActivity()
	if err != nil {
		return nil, err
	}
	return s.Enrich(topics)
}

// Totals returns the overall number of topics and replies.
func (s *TopicService) Totals() (topics int64, replies int64, err error) {
	db := database.GetDB()
	if err = db.Model(model.Topic{}).Count(&topics).Error; err != nil {
		return
	}
	err = db.Model(model.Reply{}).Count(&replies).Error
	return
}
