package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"spurningar/internal/common"
	"spurningar/internal/models"
)

// publishRequest is the render service's wire contract.
type publishRequest struct {
	Question           string `json:"question"`
	Answer             string `json:"answer"`
	FactChecked        string `json:"factChecked,omitempty"`
	SimplifiedQuestion string `json:"simplifiedQuestion,omitempty"`
	SimplifiedAnswer   string `json:"simplifiedAnswer,omitempty"`
}

type publishError struct {
	Error string `json:"error"`
}

// Publisher forwards a question/answer pair to the external video-rendering
// service and flips the question's posted flag. The external call runs
// before any state commit, so a failed publish leaves nothing to roll back.
// Retried publishes are no-ops: the idempotency key is deterministic per
// pair and recorded in PublishLog.
type Publisher struct {
	db      *gorm.DB
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewPublisher(db *gorm.DB, url string, timeout time.Duration) *Publisher {
	return &Publisher{
		db:      db,
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// idempotencyKey derives the stable key for a pair. uuid v5 keeps it
// deterministic across retries and server restarts.
func idempotencyKey(qid, aid string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("publish:"+qid+":"+aid)).String()
}

// Publish resolves the pair, calls the gateway once and commits the posted
// flag on success. Admin only. No automatic retry: the caller sees the
// failure and decides.
func (p *Publisher) Publish(ctx context.Context, actor *models.User, qid, aid string) (*models.Question, error) {
	if actor == nil || !actor.Admin {
		return nil, common.ErrNotAdmin
	}
	if p.url == "" {
		return nil, fmt.Errorf("%w: PUBLISH_URL is not configured", common.ErrPublishFailed)
	}

	var question models.Question
	if err := p.db.Where("qid = ?", qid).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrQuestionNotFound
		}
		return nil, err
	}
	var answer models.Answer
	if err := p.db.Where("aid = ? AND question_id = ?", aid, question.ID).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrAnswerNotFound
		}
		return nil, err
	}

	key := idempotencyKey(qid, aid)

	// Pair already forwarded: report success without a second call.
	var existing models.PublishLog
	if err := p.db.Where("idempotency_key = ?", key).First(&existing).Error; err == nil {
		if !question.Posted {
			if err := p.db.Model(&question).UpdateColumn("posted", true).Error; err != nil {
				return nil, err
			}
			question.Posted = true
		}
		return &question, nil
	}

	if err := p.post(ctx, key, publishRequest{
		Question:           question.Title,
		Answer:             answer.Content,
		FactChecked:        answer.FactCheck,
		SimplifiedQuestion: answer.SimplifiedQuestion,
		SimplifiedAnswer:   answer.SimplifiedAnswer,
	}); err != nil {
		return nil, err
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		entry := models.PublishLog{
			QuestionID:     question.ID,
			AnswerID:       answer.ID,
			IdempotencyKey: key,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&question).UpdateColumn("posted", true).Error
	})
	if err != nil {
		return nil, err
	}
	question.Posted = true

	log.WithFields(log.Fields{"qid": qid, "aid": aid}).Info("Question published to render service")
	return &question, nil
}

// post performs the single outbound call, bounded by the configured
// timeout on top of the caller's context.
func (p *Publisher) post(ctx context.Context, key string, body publishRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPublishFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var remote publishError
		if json.Unmarshal(raw, &remote) == nil && remote.Error != "" {
			return fmt.Errorf("%w: %s", common.ErrPublishFailed, remote.Error)
		}
		return fmt.Errorf("%w: status %d", common.ErrPublishFailed, resp.StatusCode)
	}
	return nil
}
