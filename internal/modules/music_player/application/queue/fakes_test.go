package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	testGuild snowflake.ID = 100
	testVoice snowflake.ID = 200
	testText  snowflake.ID = 300
	testBot   snowflake.ID = 1
)

var errFake = errors.New("fake failure")

type fakeConn struct {
	mu        sync.Mutex
	played    []domain.AudioSource
	stops     int
	pauses    int
	unpauses  int
	volumes   []float64
	destroyed bool
	playErr   map[domain.AudioSource]error
	position  time.Duration
}

func (c *fakeConn) Play(_ context.Context, audio domain.AudioSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.playErr[audio]; err != nil {
		return err
	}
	c.played = append(c.played, audio)
	return nil
}

func (c *fakeConn) Pause(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauses++
	return nil
}

func (c *fakeConn) Unpause(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unpauses++
	return nil
}

func (c *fakeConn) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	return nil
}

func (c *fakeConn) SetVolume(_ context.Context, scalar float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volumes = append(c.volumes, scalar)
	return nil
}

func (c *fakeConn) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *fakeConn) Destroy(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	return nil
}

func (c *fakeConn) Played() []domain.AudioSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AudioSource(nil), c.played...)
}

func (c *fakeConn) Stops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

func (c *fakeConn) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

type fakeTransport struct {
	mu         sync.Mutex
	conns      []*fakeConn
	connectErr error
	channels   []snowflake.ID

	// When gate is set, Connect signals entered and blocks until gate closes.
	gate    chan struct{}
	entered chan struct{}
}

// holdConnects makes every Connect wait until the returned release is called.
// release may be called more than once.
func (t *fakeTransport) holdConnects() (entered <-chan struct{}, release func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gate = make(chan struct{})
	t.entered = make(chan struct{}, 16)
	gate := t.gate
	var once sync.Once
	return t.entered, func() { once.Do(func() { close(gate) }) }
}

func (t *fakeTransport) Connect(ctx context.Context, _, channelID snowflake.ID) (ports.Connection, error) {
	t.mu.Lock()
	gate, entered := t.gate, t.entered
	t.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	conn := &fakeConn{}
	t.conns = append(t.conns, conn)
	t.channels = append(t.channels, channelID)
	return conn, nil
}

type sentView struct {
	ref  domain.MessageRef
	view ports.View
}

type fakePresenter struct {
	mu      sync.Mutex
	nextID  snowflake.ID
	sent    []sentView
	edits   []sentView
	deleted []domain.MessageRef
	sendErr error

	// live counts sent messages not yet deleted; maxLive is its peak.
	live    int
	maxLive int

	// When gate is set, Send signals entered and blocks until gate closes.
	gate    chan struct{}
	entered chan struct{}
}

// holdSends makes every Send wait until the returned release is called.
// release may be called more than once.
func (p *fakePresenter) holdSends() (entered <-chan struct{}, release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate = make(chan struct{})
	p.entered = make(chan struct{}, 16)
	gate := p.gate
	var once sync.Once
	return p.entered, func() { once.Do(func() { close(gate) }) }
}

func (p *fakePresenter) Send(_ context.Context, channelID snowflake.ID, view ports.View) (domain.MessageRef, error) {
	p.mu.Lock()
	gate, entered := p.gate, p.entered
	p.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return domain.MessageRef{}, p.sendErr
	}
	p.nextID++
	ref := domain.MessageRef{ChannelID: channelID, MessageID: p.nextID}
	p.sent = append(p.sent, sentView{ref: ref, view: view})
	p.live++
	p.maxLive = max(p.maxLive, p.live)
	return ref, nil
}

// MaxLive returns the largest number of status messages alive at once.
func (p *fakePresenter) MaxLive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxLive
}

func (p *fakePresenter) Edit(_ context.Context, ref domain.MessageRef, view ports.View) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edits = append(p.edits, sentView{ref: ref, view: view})
	return nil
}

func (p *fakePresenter) Delete(_ context.Context, ref domain.MessageRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, ref)
	p.live--
	return nil
}

func (p *fakePresenter) Sent() []sentView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentView(nil), p.sent...)
}

func (p *fakePresenter) Edits() []sentView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentView(nil), p.edits...)
}

func (p *fakePresenter) Deleted() []domain.MessageRef {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.MessageRef(nil), p.deleted...)
}

type fakeVoiceState struct {
	occupants []snowflake.ID
}

func (v *fakeVoiceState) GetUserVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return testVoice, nil
}

func (v *fakeVoiceState) ChannelOccupants(_, _ snowflake.ID) ([]snowflake.ID, error) {
	return v.occupants, nil
}

type fakeTask struct {
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTask) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeScheduler struct {
	task *fakeTask
	fn   func(context.Context)
}

func (s *fakeScheduler) Every(_ time.Duration, fn func(context.Context)) ports.Task {
	s.fn = fn
	s.task = &fakeTask{}
	return s.task
}

// Tick runs the scheduled job unless it was stopped.
func (s *fakeScheduler) Tick() {
	if s.task != nil && !s.task.Stopped() {
		s.fn(context.Background())
	}
}

type fakeEvents struct {
	mu        sync.Mutex
	destroyed []domain.QueueDestroyedEvent
	handler   func(context.Context, domain.PlayerStateChangedEvent)
}

func (e *fakeEvents) PublishPlayerStateChanged(event domain.PlayerStateChangedEvent) {
	if e.handler != nil {
		e.handler(context.Background(), event)
	}
}

func (e *fakeEvents) PublishQueueDestroyed(event domain.QueueDestroyedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = append(e.destroyed, event)
}

func (e *fakeEvents) OnPlayerStateChanged(handler func(context.Context, domain.PlayerStateChangedEvent)) {
	e.handler = handler
}

func (e *fakeEvents) OnQueueDestroyed(func(context.Context, domain.QueueDestroyedEvent)) {}

func (e *fakeEvents) Destroyed() []domain.QueueDestroyedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.QueueDestroyedEvent(nil), e.destroyed...)
}

type harness struct {
	queue     *MusicQueue
	conn      *fakeConn
	transport *fakeTransport
	presenter *fakePresenter
	voice     *fakeVoiceState
	scheduler *fakeScheduler
	events    *fakeEvents
}

func newHarness(t *testing.T, policy Policy) *harness {
	t.Helper()
	h := &harness{
		conn:      &fakeConn{},
		transport: &fakeTransport{},
		presenter: &fakePresenter{},
		voice:     &fakeVoiceState{occupants: []snowflake.ID{testBot}},
		scheduler: &fakeScheduler{},
		events:    &fakeEvents{},
	}
	h.queue = New(testGuild, testVoice, testText, h.conn, Dependencies{
		Transport:       h.transport,
		Presenter:       h.presenter,
		VoiceState:      h.voice,
		Scheduler:       h.scheduler,
		Events:          h.events,
		RefreshInterval: time.Second,
		Policy:          policy,
	})
	return h
}

func testSong(name string, owner snowflake.ID) *domain.Song {
	return domain.NewSong(
		domain.SongMetadata{Title: name, Duration: time.Minute},
		domain.Requester{ID: owner, Name: "user"},
		domain.AudioSource("audio-"+name),
	)
}

func finished() domain.PlayerStateChangedEvent {
	return domain.PlayerStateChangedEvent{
		GuildID: testGuild,
		From:    domain.StatusPlaying,
		To:      domain.StatusIdle,
		Reason:  domain.TrackEndFinished,
	}
}

func stopped() domain.PlayerStateChangedEvent {
	return domain.PlayerStateChangedEvent{
		GuildID: testGuild,
		From:    domain.StatusPlaying,
		To:      domain.StatusIdle,
		Reason:  domain.TrackEndStopped,
	}
}
