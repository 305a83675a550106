package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interruptlog/internal/event"
)

func TestStartUsesFirstTaskType(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	cur, err := Start(nil, "📞 電話", []string{"設計", "実装"}, now)
	require.NoError(t, err)

	assert.Equal(t, "📞 電話", cur.Category)
	assert.Equal(t, now.UnixMilli(), cur.StartTime)
	assert.Equal(t, "設計", cur.TaskType)
	assert.Equal(t, "", cur.Memo)
	assert.Equal(t, StateTracking, StateOf(cur))
}

func TestStartWithNoTaskTypes(t *testing.T) {
	cur, err := Start(nil, "x", nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "", cur.TaskType)
}

func TestStartRejectsWhileTracking(t *testing.T) {
	active := &event.CurrentInterruption{Category: "a", StartTime: 1}
	next, err := Start(active, "b", nil, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyTracking)
	assert.Nil(t, next)
	assert.Equal(t, "a", active.Category, "active record must not be overwritten")
}

func TestStartRejectsBlankCategory(t *testing.T) {
	_, err := Start(nil, "  ", nil, time.Now())
	assert.ErrorIs(t, err, ErrNoCategory)
}

func TestEditsDoNotMutateInput(t *testing.T) {
	cur := &event.CurrentInterruption{Category: "a", TaskType: "t1"}

	withType, err := EditTaskType(cur, "t2")
	require.NoError(t, err)
	withMemo, err := EditMemo(withType, "note")
	require.NoError(t, err)

	assert.Equal(t, "t1", cur.TaskType)
	assert.Equal(t, "t2", withMemo.TaskType)
	assert.Equal(t, "note", withMemo.Memo)

	_, err = EditMemo(nil, "x")
	assert.ErrorIs(t, err, ErrNotTracking)
	_, err = EditTaskType(nil, "x")
	assert.ErrorIs(t, err, ErrNotTracking)
}

func TestCompleteAfterFiveSeconds(t *testing.T) {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)
	cur, err := Start(nil, "📞 電話", []string{"MTG"}, start)
	require.NoError(t, err)
	cur, err = EditMemo(cur, "  call from sales  ")
	require.NoError(t, err)

	entry, err := Complete(cur, start.Add(5000*time.Millisecond+37*time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, int64(5), entry.Duration)
	assert.Equal(t, "📞 電話", entry.Category)
	assert.Equal(t, start.UnixMilli(), entry.Timestamp)
	assert.Equal(t, "call from sales", entry.Memo)
	assert.Equal(t, "MTG", entry.TaskType)
}

func TestCompleteClampsNegativeDuration(t *testing.T) {
	now := time.Now()
	cur := &event.CurrentInterruption{Category: "a", StartTime: now.Add(time.Minute).UnixMilli()}
	entry, err := Complete(cur, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.Duration)
}

func TestCompleteAndDiscardRequireTracking(t *testing.T) {
	_, err := Complete(nil, time.Now())
	assert.ErrorIs(t, err, ErrNotTracking)
	assert.ErrorIs(t, Discard(nil), ErrNotTracking)
	assert.NoError(t, Discard(&event.CurrentInterruption{}))
	assert.Equal(t, StateIdle, StateOf(nil))
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                      "00:00:00",
		59 * time.Second:                       "00:00:59",
		61 * time.Second:                       "00:01:01",
		time.Hour + 2*time.Minute + 3*time.Second: "01:02:03",
		100*time.Hour + 1500*time.Millisecond:  "100:00:01",
		-5 * time.Second:                       "00:00:00",
	}
	for d, want := range cases {
		assert.Equal(t, want, FormatClock(d), "duration %s", d)
	}
}

func TestElapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := &event.CurrentInterruption{StartTime: start.UnixMilli()}
	assert.Equal(t, 90*time.Second, Elapsed(cur, start.Add(90*time.Second+900*time.Millisecond)))
	assert.Equal(t, time.Duration(0), Elapsed(nil, start))
}
