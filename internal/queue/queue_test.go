package queue_test

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/unclebandit/marketdesk-backend/internal/queue"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newQueue() *queue.InMemoryQueue {
	q := queue.NewInMemoryQueue(nil)
	q.Backoff = time.Millisecond
	return q
}

func TestPublishWithoutSubscribers(t *testing.T) {
	q := newQueue()
	defer q.Close()

	err := q.Publish("lead.created", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrNoSubscribers))
}

func TestPublishReachesTopicAndWildcard(t *testing.T) {
	q := newQueue()

	var wg sync.WaitGroup
	wg.Add(2)
	var topicHits, allHits atomic.Int32
	require.NoError(t, q.Subscribe("lead.created", func(ev queue.Event) error {
		topicHits.Add(1)
		wg.Done()
		return nil
	}))
	require.NoError(t, q.Subscribe(queue.AllTopics, func(ev queue.Event) error {
		assert.Equal(t, "lead.created", ev.Topic)
		allHits.Add(1)
		wg.Done()
		return nil
	}))

	require.NoError(t, q.Publish("lead.created", queue.Notification{Notice: "lead added"}))
	wg.Wait()
	require.NoError(t, q.Close())

	assert.EqualValues(t, 1, topicHits.Load())
	assert.EqualValues(t, 1, allHits.Load())
}

func TestFailingHandlerIsRetried(t *testing.T) {
	q := newQueue()

	var attempts atomic.Int32
	done := make(chan struct{})
	require.NoError(t, q.Subscribe("report.generate", func(ev queue.Event) error {
		if attempts.Add(1) < 3 {
			return errors.New("not yet")
		}
		close(done)
		return nil
	}))

	require.NoError(t, q.Publish("report.generate", queue.ReportJob{ReportID: 1}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never succeeded")
	}
	require.NoError(t, q.Close())
	assert.EqualValues(t, 3, attempts.Load())
}

func TestRetriesStopAfterMax(t *testing.T) {
	q := newQueue()
	q.MaxRetries = 2

	var attempts atomic.Int32
	require.NoError(t, q.Subscribe("x", func(ev queue.Event) error {
		attempts.Add(1)
		return errors.New("always")
	}))
	require.NoError(t, q.Publish("x", nil))

	require.Eventually(t, func() bool { return attempts.Load() == 3 }, 2*time.Second, time.Millisecond)
	require.NoError(t, q.Close())
	assert.EqualValues(t, 3, attempts.Load())
}

func TestCloseCancelsPendingRetry(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)
	q.Backoff = time.Hour

	called := make(chan struct{}, 1)
	require.NoError(t, q.Subscribe("x", func(ev queue.Event) error {
		called <- struct{}{}
		return errors.New("fail")
	}))
	require.NoError(t, q.Publish("x", nil))
	<-called

	finished := make(chan struct{})
	go func() {
		_ = q.Close()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Close waited for the backoff")
	}

	assert.ErrorIs(t, q.Publish("x", nil), queue.ErrClosed)
	assert.ErrorIs(t, q.Subscribe("x", func(queue.Event) error { return nil }), queue.ErrClosed)
}

type completer struct {
	mu   sync.Mutex
	ids  []int
	fail int
}

func (c *completer) CompleteReport(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail > 0 {
		c.fail--
		return errors.New("render failed")
	}
	c.ids = append(c.ids, id)
	return nil
}

func (c *completer) done() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.ids...)
}

func TestReportSubscriber(t *testing.T) {
	q := newQueue()
	c := &completer{fail: 1}
	require.NoError(t, queue.StartReportSubscriber(q, c, nil))

	require.NoError(t, q.Publish(queue.TopicReportGenerate, queue.ReportJob{ReportID: 7}))
	require.Eventually(t, func() bool { return len(c.done()) == 1 }, 2*time.Second, time.Millisecond)
	require.NoError(t, q.Close())
	assert.Equal(t, []int{7}, c.done())
}

func TestReportSubscriberIgnoresBadPayload(t *testing.T) {
	q := newQueue()
	c := &completer{}
	require.NoError(t, queue.StartReportSubscriber(q, c, nil))

	require.NoError(t, q.Publish(queue.TopicReportGenerate, "not a job"))
	require.NoError(t, q.Close())
	assert.Empty(t, c.done())
}

func TestEventJSONShape(t *testing.T) {
	ev := queue.Event{Topic: "lead.created", Payload: queue.Notification{Notice: "lead added", RecordID: 3}, At: time.Unix(0, 0).UTC()}
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"lead.created","payload":{"notice":"lead added","record_id":3},"at":"1970-01-01T00:00:00Z"}`, string(body))
}
