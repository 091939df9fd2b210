package services

import (
	"context"
	"sync"

	"poiviewer/internal/domain/entities"
)

type fakeMap struct {
	mu       sync.Mutex
	visible  bool
	centers  []entities.Coordinate
	zooms    []int
	showHide []string
}

func newFakeMap() *fakeMap { return &fakeMap{visible: true} }

func (m *fakeMap) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = true
	m.showHide = append(m.showHide, "show")
}

func (m *fakeMap) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
	m.showHide = append(m.showHide, "hide")
}

func (m *fakeMap) CenterOn(c entities.Coordinate, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centers = append(m.centers, c)
	m.zooms = append(m.zooms, zoom)
}

func (m *fakeMap) isVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// fakeScene signals readiness when ready is closed by the test. With
// neverReady set, Initialize returns a nil channel.
type fakeScene struct {
	mu         sync.Mutex
	ready      chan struct{}
	neverReady bool
	visible    bool
	inits      int
	pauses     int
	populated  [][]AREntity
}

func newFakeScene() *fakeScene { return &fakeScene{ready: make(chan struct{})} }

func (s *fakeScene) Initialize() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inits++
	if s.neverReady {
		return nil
	}
	return s.ready
}

func (s *fakeScene) markReady() { close(s.ready) }

func (s *fakeScene) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
}

func (s *fakeScene) Populate(e []AREntity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.populated = append(s.populated, e)
}

func (s *fakeScene) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

func (s *fakeScene) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

func (s *fakeScene) populateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.populated)
}

func (s *fakeScene) pauseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauses
}

func (s *fakeScene) isVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// fakeCamera answers each prompt with the next value sent on answers, or
// with ctx.Err() when the prompt is abandoned.
type fakeCamera struct {
	answers  chan PermissionOutcome
	mu       sync.Mutex
	requests int
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{answers: make(chan PermissionOutcome, 1)}
}

func (c *fakeCamera) Request(ctx context.Context) (PermissionOutcome, error) {
	c.mu.Lock()
	c.requests++
	c.mu.Unlock()
	select {
	case o := <-c.answers:
		return o, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *fakeCamera) requestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

type fakeSubscription struct {
	src *fakeLocation
}

func (s *fakeSubscription) Close() {
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	s.src.closed++
}

// fakeLocation keeps the handlers of the latest subscription so tests can
// push samples and errors, including after Close.
type fakeLocation struct {
	mu         sync.Mutex
	opts       []WatchOptions
	onSample   func(Sample)
	onError    func(error)
	subscribes int
	closed     int
	subErr     error
	current    Sample
	currentErr error
	// hang makes Current wait for its context instead of answering.
	hang         bool
	currentCalls int
}

func (l *fakeLocation) Subscribe(opts WatchOptions, onSample func(Sample), onError func(error)) (Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.subErr != nil {
		return nil, l.subErr
	}
	l.opts = append(l.opts, opts)
	l.onSample, l.onError = onSample, onError
	l.subscribes++
	return &fakeSubscription{src: l}, nil
}

func (l *fakeLocation) Current(ctx context.Context, opts WatchOptions) (Sample, error) {
	l.mu.Lock()
	l.opts = append(l.opts, opts)
	l.currentCalls++
	hang := l.hang
	l.mu.Unlock()

	if hang {
		<-ctx.Done()
		return Sample{}, ctx.Err()
	}
	return l.current, l.currentErr
}

func (l *fakeLocation) currentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentCalls
}

func (l *fakeLocation) push(s Sample) {
	l.mu.Lock()
	fn := l.onSample
	l.mu.Unlock()
	fn(s)
}

func (l *fakeLocation) fail(err error) {
	l.mu.Lock()
	fn := l.onError
	l.mu.Unlock()
	fn(err)
}

func (l *fakeLocation) counts() (subscribes, closed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subscribes, l.closed
}

type fakeStatus struct {
	mu      sync.Mutex
	gps     []string
	ar      []string
	loading []string
	done    int
	notices []string
}

func (s *fakeStatus) GPSStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gps = append(s.gps, text)
}

func (s *fakeStatus) ARStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ar = append(s.ar, text)
}

func (s *fakeStatus) Loading(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = append(s.loading, text)
}

func (s *fakeStatus) LoadingDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
}

func (s *fakeStatus) Notice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, text)
}

func (s *fakeStatus) noticeList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notices...)
}

func (s *fakeStatus) gpsList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.gps...)
}

type fakes struct {
	mapSurface *fakeMap
	scene      *fakeScene
	camera     *fakeCamera
	location   *fakeLocation
	status     *fakeStatus
}

func newFakes() *fakes {
	return &fakes{
		mapSurface: newFakeMap(),
		scene:      newFakeScene(),
		camera:     newFakeCamera(),
		location:   &fakeLocation{},
		status:     &fakeStatus{},
	}
}

func (f *fakes) collaborators() Collaborators {
	return Collaborators{
		Map:      f.mapSurface,
		Scene:    f.scene,
		Camera:   f.camera,
		Location: f.location,
		Status:   f.status,
	}
}

// fakeProvider hands out one fixed set of fakes to every session.
type fakeProvider struct {
	mu       sync.Mutex
	f        *fakes
	acquired []string
	released []string
}

func (p *fakeProvider) Acquire(id string) Collaborators {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired = append(p.acquired, id)
	return p.f.collaborators()
}

func (p *fakeProvider) Release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = append(p.released, id)
}
