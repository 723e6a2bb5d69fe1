package mediagroup

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarker struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeMarker() *fakeMarker {
	return &fakeMarker{seen: make(map[string]bool)}
}

func (m *fakeMarker) MarkMediaGroupSeen(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[id] = true
	return nil
}

func (m *fakeMarker) CheckMediaGroup(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[id], nil
}

type flushRecorder struct {
	mu      sync.Mutex
	batches []*Batch
}

func (r *flushRecorder) record(b *Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
}

func (r *flushRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *flushRecorder) first() *Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return nil
	}
	return r.batches[0]
}

func albumMessage(messageID int, groupID, caption string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID:    messageID,
		MediaGroupID: groupID,
		Caption:      caption,
		Photo:        []tgbotapi.PhotoSize{{FileID: "photo"}},
	}
}

func TestAggregatorSingleFlushInArrivalOrder(t *testing.T) {
	rec := &flushRecorder{}
	agg := New(20*time.Millisecond, DefaultMaxAge, newFakeMarker(), rec.record)

	for i := 1; i <= 5; i++ {
		caption := ""
		if i == 1 {
			caption = "подпись"
		}
		agg.Add(42, 7, albumMessage(i, "g1", caption))
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	b := rec.first()
	require.Len(t, b.Messages, 5)
	for i, m := range b.Messages {
		assert.Equal(t, i+1, m.MessageID)
	}
	assert.Equal(t, "подпись", b.Caption)
	assert.Equal(t, int64(42), b.UserID)
	assert.Equal(t, 7, b.ThreadID)
	assert.Equal(t, 0, agg.Len())

	// Повторной отправки не происходит
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestAggregatorCaptionFromFirstBearingMessage(t *testing.T) {
	rec := &flushRecorder{}
	agg := New(20*time.Millisecond, DefaultMaxAge, newFakeMarker(), rec.record)

	agg.Add(1, 2, albumMessage(1, "g2", ""))
	agg.Add(1, 2, albumMessage(2, "g2", "вторая часть"))
	agg.Add(1, 2, albumMessage(3, "g2", "третья часть"))

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "вторая часть", rec.first().Caption)
}

func TestAggregatorStaleBatchDiscarded(t *testing.T) {
	rec := &flushRecorder{}
	agg := New(10*time.Millisecond, DefaultMaxAge, newFakeMarker(), rec.record)
	// Протухание проверяется в момент отправки
	agg.maxAge = time.Nanosecond

	agg.Add(1, 2, albumMessage(1, "g3", ""))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
	assert.Equal(t, 0, agg.Len())
}

func TestAggregatorLateArrivalDropped(t *testing.T) {
	rec := &flushRecorder{}
	marker := newFakeMarker()
	agg := New(10*time.Millisecond, DefaultMaxAge, marker, rec.record)

	agg.Add(1, 2, albumMessage(1, "g4", ""))
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	// Опоздавшая часть не создаёт новый батч
	agg.Add(1, 2, albumMessage(2, "g4", ""))
	assert.Equal(t, 0, agg.Len())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count())

	seen, err := marker.CheckMediaGroup("g4")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestAggregatorIndependentKeys(t *testing.T) {
	rec := &flushRecorder{}
	agg := New(20*time.Millisecond, DefaultMaxAge, newFakeMarker(), rec.record)

	// Одинаковый media_group_id у разных пользователей — разные батчи
	agg.Add(1, 10, albumMessage(1, "g5", ""))
	agg.Add(2, 20, albumMessage(2, "g5", ""))
	assert.Equal(t, 2, agg.Len())

	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
}
