package service_test

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type settled struct {
	mu      sync.Mutex
	acks    []string
	nacks   []string
	requeue []bool
}

func (s *settled) job(topic string, redelivered bool) service.Job {
	return service.Job{
		Event:       queue.Event{Topic: topic},
		Redelivered: redelivered,
		Ack: func() error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.acks = append(s.acks, topic)
			return nil
		},
		Nack: func(requeue bool) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.nacks = append(s.nacks, topic)
			s.requeue = append(s.requeue, requeue)
			return nil
		},
	}
}

func TestWorker(t *testing.T) {
	var s settled
	jobChan := make(chan service.Job, 3)
	jobChan <- s.job(queue.TopicLeadCreated, false)
	jobChan <- s.job(queue.TopicCampaignPaused, false)
	jobChan <- s.job(queue.TopicCampaignPaused, true)
	close(jobChan)

	worker := service.NewWorker(jobChan, func(ev queue.Event) error {
		if ev.Topic == queue.TopicCampaignPaused {
			return errors.New("handler failed")
		}
		return nil
	}, nil)

	// returns once the channel is drained
	worker.Start()

	assert.Equal(t, []string{queue.TopicLeadCreated}, s.acks)
	assert.Equal(t, []string{queue.TopicCampaignPaused, queue.TopicCampaignPaused}, s.nacks)
	assert.Equal(t, []bool{true, false}, s.requeue)
}
