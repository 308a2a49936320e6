package debounce_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/debounce"
	"github.com/kode4food/debounce/coalesce"
	"github.com/kode4food/debounce/config"
	"github.com/kode4food/debounce/executor"
	"github.com/kode4food/debounce/scheduler"

	testutil "github.com/kode4food/debounce/internal/testing"
)

func TestNewErrors(t *testing.T) {
	as := assert.New(t)

	_, err := debounce.New[string, string](nil)
	as.ErrorIs(err, debounce.ErrNilExecutor)

	exec := testutil.NewExecutor[string, string]()
	_, err = debounce.NewMerging[string, string](exec, nil)
	as.ErrorIs(err, debounce.ErrNilReducer)

	_, err = debounce.New[string, string](exec, config.WithDelay(0))
	as.ErrorIs(err, config.ErrInvalidDelay)
}

func TestNewRealTime(t *testing.T) {
	as := assert.New(t)

	exec := testutil.NewExecutor[string, string]()
	exec.Respond = func(req string) ([]string, error) {
		return []string{"echo:" + req}, nil
	}
	c, err := debounce.New[string, string](exec,
		config.WithDelay(30*time.Millisecond),
	)
	require.NoError(t, err)

	a := testutil.NewRecorder[string]()
	b := testutil.NewRecorder[string]()
	c.Submit(coalesce.Request[string]{Key: "k", Payload: "P1"}, a.Observer())
	c.Submit(coalesce.Request[string]{Key: "k", Payload: "P2"}, b.Observer())

	for _, r := range []*testutil.Recorder[string]{a, b} {
		select {
		case <-r.Done():
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for debounced result")
		}
		as.Equal(testutil.Sequence[string](nil, "echo:P2"), r.Events())
	}
	as.Equal([]string{"P2"}, exec.Payloads())
	as.Eventually(func() bool {
		return c.Groups() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestComposedWithRetry(t *testing.T) {
	as := assert.New(t)

	failures := 1
	exec := testutil.NewExecutor[string, string]()
	exec.Respond = func(req string) ([]string, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("transient")
		}
		return []string{req}, nil
	}
	retry, err := executor.Retry[string, string](exec, 2, 0)
	require.NoError(t, err)

	clock := scheduler.NewVirtual()
	c, err := debounce.New[string, string](retry, config.WithScheduler(clock))
	require.NoError(t, err)

	r := testutil.NewRecorder[string]()
	c.Submit(coalesce.Request[string]{Key: "k", Payload: "P"}, r.Observer())
	clock.Advance(config.DefaultDelay)

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for retried result")
	}
	as.Equal(testutil.Sequence[string](nil, "P"), r.Events())
	as.Len(exec.Calls(), 2)
}

func TestCoalescerAsExecutor(t *testing.T) {
	as := assert.New(t)

	type query struct {
		key  string
		text string
	}

	exec := testutil.NewExecutor[query, string]()
	clock := scheduler.NewVirtual()
	c, err := debounce.New[query, string](exec, config.WithScheduler(clock))
	require.NoError(t, err)

	link := coalesce.Executor(c,
		func(q query) string { return q.key }, nil,
	)

	r1 := testutil.NewRecorder[string]()
	r2 := testutil.NewRecorder[string]()
	link.Execute(query{key: "search", text: "h"}, r1.Observer())
	link.Execute(query{key: "search", text: "he"}, r2.Observer())
	clock.Advance(config.DefaultDelay)

	as.Equal([]query{{key: "search", text: "he"}}, exec.Payloads())
	exec.Last().Data("hello")
	exec.Last().Complete()

	as.Equal(r1.Events(), r2.Events())
	as.Equal(testutil.Sequence[string](nil, "hello"), r1.Events())
}
