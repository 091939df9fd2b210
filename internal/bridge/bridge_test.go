package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poiviewer/internal/domain/entities"
	"poiviewer/internal/services"
)

func newTestClient(h *Hub, session string) *Client {
	return NewClient(h, nil, session)
}

func messageTypes(msgs []Message) []string {
	types := make([]string, len(msgs))
	for i, m := range msgs {
		types[i] = m.Type
	}
	return types
}

func drain(c *Client) []Message {
	var out []Message
	for {
		select {
		case m, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestHub_BacklogFlushedOnRegister(t *testing.T) {
	h := NewHub()
	h.Send("s1", Message{Type: MessageMapShow})
	h.Send("s1", Message{Type: MessageNotice, Data: textCommand{Text: "hi"}})

	assert.Len(t, h.Backlog("s1"), 2)

	c := newTestClient(h, "s1")
	h.add(c)

	assert.Equal(t, []string{MessageMapShow, MessageNotice}, messageTypes(drain(c)))
	assert.Empty(t, h.Backlog("s1"))
	assert.Equal(t, 1, h.ClientCount("s1"))
}

func TestHub_BacklogBounded(t *testing.T) {
	h := NewHub()
	for i := 0; i < maxBacklog+10; i++ {
		h.Send("s1", Message{Type: MessageStatusGPS, Data: i})
	}

	q := h.Backlog("s1")
	require.Len(t, q, maxBacklog)
	assert.Equal(t, 10, q[0].Data, "oldest messages are dropped")
}

func TestHub_SendRoutesBySession(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "a")
	b := newTestClient(h, "b")
	h.add(a)
	h.add(b)

	h.Send("a", Message{Type: MessageSceneInit})

	assert.Equal(t, []string{MessageSceneInit}, messageTypes(drain(a)))
	assert.Empty(t, drain(b))
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "s")
	h.add(c)

	for i := 0; i < sendBuffer+1; i++ {
		h.Send("s", Message{Type: MessageStatusGPS})
	}

	assert.Equal(t, 0, h.ClientCount("s"))
	h.remove(c) // already dropped; must not close twice
}

func TestHub_DropSession(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "s")
	h.add(c)
	h.Send("other", Message{Type: MessageMapShow})

	h.DropSession("s")
	h.DropSession("other")

	assert.Equal(t, 0, h.ClientCount("s"))
	assert.Empty(t, h.Backlog("other"))
	_, ok := <-c.send
	assert.False(t, ok, "client send channel closed")
	h.reply(c, Message{Type: MessagePong}) // detached client; must not panic
}

func TestHub_ServeRegistersAndShutsDown(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx) }()

	c := newTestClient(h, "s")
	require.NoError(t, h.Register(context.Background(), c))
	require.Eventually(t, func() bool { return h.ClientCount("s") == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, h.ClientCount("s"))
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{
		Type: MessageMapCenter,
		Data: centerCommand{Coordinate: entities.NewCoordinate(52.5, 13.4), Zoom: 15},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"map.center","data":{"coordinate":{"lat":52.5,"lon":13.4},"zoom":15}}`, string(data))

	data, err = MarshalMessage(Message{Type: MessageMapShow})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"map.show"}`, string(data))
}

func TestBrowser_SceneReady(t *testing.T) {
	h := NewHub()
	b := NewBrowser("s", h)
	scene := b.Collaborators().Scene

	assert.ErrorIs(t, b.ReportSceneReady(), ErrNoPendingPrompt)

	ready := scene.Initialize()
	require.NoError(t, b.ReportSceneReady())
	select {
	case <-ready:
	default:
		t.Fatal("ready channel not closed")
	}
	assert.ErrorIs(t, b.ReportSceneReady(), ErrNoPendingPrompt, "ready is signalled at most once")

	scene.Initialize()
	scene.Pause()
	assert.ErrorIs(t, b.ReportSceneReady(), ErrNoPendingPrompt, "pause abandons the pending initialization")

	assert.Equal(t, []string{MessageSceneInit, MessageSceneInit, MessageScenePause}, messageTypes(h.Backlog("s")))
}

func TestBrowser_MapAndSceneMessages(t *testing.T) {
	h := NewHub()
	collab := NewBrowser("s", h).Collaborators()

	collab.Map.Hide()
	collab.Scene.Show()
	collab.Scene.Populate([]services.AREntity{{POIID: "1"}})
	collab.Scene.Hide()
	collab.Map.Show()
	collab.Map.CenterOn(entities.NewCoordinate(1, 2), 12)

	assert.Equal(t, []string{
		MessageMapHide, MessageSceneShow, MessageScenePopulate, MessageSceneHide, MessageMapShow, MessageMapCenter,
	}, messageTypes(h.Backlog("s")))
}

func TestBrowser_CameraPrompt(t *testing.T) {
	b := NewBrowser("s", NewHub())

	assert.ErrorIs(t, b.ReportCamera(services.PermissionGranted), ErrNoPendingPrompt)

	result := make(chan services.PermissionOutcome, 1)
	go func() {
		outcome, err := b.Request(context.Background())
		assert.NoError(t, err)
		result <- outcome
	}()

	require.Eventually(t, func() bool {
		return b.ReportCamera(services.PermissionDenied) == nil
	}, time.Second, time.Millisecond)
	assert.Equal(t, services.PermissionDenied, <-result)

	assert.ErrorIs(t, b.ReportCamera("maybe"), ErrInvalidOutcome)
}

func TestBrowser_CameraPromptCancelled(t *testing.T) {
	b := NewBrowser("s", NewHub())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.Request(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, b.ReportCamera(services.PermissionGranted), ErrNoPendingPrompt)
}

type recorder struct {
	mu      sync.Mutex
	samples []services.Sample
	errs    []error
}

func (r *recorder) onSample(s services.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples), len(r.errs)
}

func TestBrowser_Subscription(t *testing.T) {
	h := NewHub()
	b := NewBrowser("s", h)
	rec := &recorder{}

	assert.ErrorIs(t, b.ReportSample(services.Sample{}), ErrNoPendingPrompt)

	sub, err := b.Subscribe(services.WatchOptions{HighAccuracy: true}, rec.onSample, rec.onError)
	require.NoError(t, err)
	assert.True(t, b.Watching())

	require.NoError(t, b.ReportSample(services.Sample{Coordinate: entities.NewCoordinate(1, 2), AccuracyM: 3}))
	require.NoError(t, b.ReportError("signal lost"))

	sub.Close()
	sub.Close()
	assert.False(t, b.Watching())
	assert.ErrorIs(t, b.ReportSample(services.Sample{}), ErrNoPendingPrompt)

	samples, errs := rec.counts()
	assert.Equal(t, 1, samples)
	assert.Equal(t, 1, errs)
	assert.EqualError(t, rec.errs[0], "signal lost")
	assert.Equal(t, []string{MessageLocationWatch, MessageLocationClear}, messageTypes(h.Backlog("s")))
}

func TestBrowser_SubscriptionWatchdog(t *testing.T) {
	b := NewBrowser("s", NewHub())
	rec := &recorder{}

	sub, err := b.Subscribe(services.WatchOptions{Timeout: 10 * time.Millisecond}, rec.onSample, rec.onError)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, errs := rec.counts()
		return errs >= 2
	}, time.Second, time.Millisecond, "watchdog fires repeatedly while no sample arrives")
	assert.True(t, b.Watching(), "a timeout does not close the subscription")

	rec.mu.Lock()
	assert.True(t, errors.Is(rec.errs[0], services.ErrSampleTimeout))
	rec.mu.Unlock()

	sub.Close()
	_, before := rec.counts()
	time.Sleep(30 * time.Millisecond)
	_, after := rec.counts()
	assert.Equal(t, before, after, "no timeouts after close")
}

func TestBrowser_CurrentTakesPrecedence(t *testing.T) {
	b := NewBrowser("s", NewHub())
	rec := &recorder{}
	_, err := b.Subscribe(services.WatchOptions{}, rec.onSample, rec.onError)
	require.NoError(t, err)

	result := make(chan services.Sample, 1)
	go func() {
		s, err := b.Current(context.Background(), services.WatchOptions{Timeout: 5 * time.Second})
		assert.NoError(t, err)
		result <- s
	}()

	want := services.Sample{Coordinate: entities.NewCoordinate(48.8584, 2.2945), AccuracyM: 15}
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.locate != nil
	}, time.Second, time.Millisecond)
	require.NoError(t, b.ReportSample(want))

	assert.Equal(t, want, <-result)
	samples, _ := rec.counts()
	assert.Equal(t, 0, samples, "the one-shot request consumed the sample")
}

func TestBrowser_CurrentSampleRestartsWatchdog(t *testing.T) {
	b := NewBrowser("s", NewHub())
	rec := &recorder{}
	sub, err := b.Subscribe(services.WatchOptions{Timeout: 200 * time.Millisecond}, rec.onSample, rec.onError)
	require.NoError(t, err)
	defer sub.Close()

	time.Sleep(120 * time.Millisecond)

	result := make(chan services.Sample, 1)
	go func() {
		s, err := b.Current(context.Background(), services.WatchOptions{Timeout: time.Second})
		assert.NoError(t, err)
		result <- s
	}()
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.locate != nil
	}, time.Second, time.Millisecond)
	require.NoError(t, b.ReportSample(services.Sample{Coordinate: entities.NewCoordinate(52.5, 13.4), AccuracyM: 5}))
	<-result

	// The original deadline (200ms after Subscribe) passes without a timeout.
	time.Sleep(120 * time.Millisecond)
	_, errs := rec.counts()
	assert.Equal(t, 0, errs, "a sample taken by the one-shot request also feeds the watchdog")
}

func TestBrowser_CurrentError(t *testing.T) {
	b := NewBrowser("s", NewHub())

	errc := make(chan error, 1)
	go func() {
		_, err := b.Current(context.Background(), services.WatchOptions{})
		errc <- err
	}()

	require.Eventually(t, func() bool { return b.ReportError("User denied Geolocation") == nil }, time.Second, time.Millisecond)
	assert.EqualError(t, <-errc, "User denied Geolocation")
}

func TestRegistry(t *testing.T) {
	h := NewHub()
	r := NewRegistry(h)

	collab := r.Acquire("s")
	collab.Status.Notice("hello")

	b, ok := r.Browser("s")
	require.True(t, ok)
	assert.Same(t, b, collab.Map)
	assert.Len(t, h.Backlog("s"), 1)

	r.Release("s")
	_, ok = r.Browser("s")
	assert.False(t, ok)
	assert.Empty(t, h.Backlog("s"))
}
