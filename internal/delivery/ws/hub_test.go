package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
	"github.com/mmuslimabdulj/neural-galaxy/internal/galaxy"
	"github.com/mmuslimabdulj/neural-galaxy/internal/observability"
	"github.com/mmuslimabdulj/neural-galaxy/internal/persistence"
)

const testKey = "galaxy:test"

// newMockClient creates a client without an actual websocket connection suitable for testing
func newMockClient(hub *Hub) *Client {
	viewer := domain.NewViewer()
	return &Client{
		ID:        viewer.ID.String(),
		Viewer:    viewer,
		hub:       hub,
		conn:      nil,
		send:      make(chan []byte, 256),
		readLimit: domain.MaxMessageSize,
	}
}

func testHubConfig() HubConfig {
	cfg := DefaultHubConfig()
	cfg.TickInterval = 10 * time.Millisecond
	cfg.ExpiryGrace = 20 * time.Millisecond
	cfg.DismissDelay = 20 * time.Millisecond
	cfg.ShutdownGrace = 30 * time.Millisecond

	var seq atomic.Int64
	rng := rand.New(rand.NewSource(7))
	cfg.Store = galaxy.Options{
		Rand: rng.Float64,
		NewID: func() string {
			return fmt.Sprintf("star-%d", seq.Add(1))
		},
	}
	return cfg
}

type hubFixture struct {
	hub     *Hub
	kv      *persistence.MemoryKV
	persist *persistence.Adapter
	metrics *observability.Collector
}

func startHub(t *testing.T, cfg HubConfig) *hubFixture {
	t.Helper()
	kv := persistence.NewMemoryKV()
	persist := persistence.NewAdapter(kv, testKey, nil)
	metrics := observability.NewCollector("test")

	hub := NewHub("test", cfg, persist, nil, metrics)
	require.NoError(t, hub.Load(context.Background()))
	go hub.Run()
	t.Cleanup(func() {
		hub.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = hub.Wait(ctx)
	})
	return &hubFixture{hub: hub, kv: kv, persist: persist, metrics: metrics}
}

func (f *hubFixture) saved(t *testing.T) []domain.StarSnapshot {
	t.Helper()
	snaps, err := f.persist.Load(context.Background())
	require.NoError(t, err)
	return snaps
}

// nextMessage reads messages until one of type want arrives
func nextMessage(t *testing.T, c *Client, want domain.MessageType) domain.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data, ok := <-c.send:
			require.True(t, ok, "send channel closed while waiting for %s", want)
			var msg domain.Message
			require.NoError(t, json.Unmarshal(data, &msg))
			if msg.Type == want {
				return msg
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

// drain empties the client's queue and returns the message types seen
func drain(c *Client) []domain.MessageType {
	var types []domain.MessageType
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return types
			}
			var msg domain.Message
			if json.Unmarshal(data, &msg) == nil {
				types = append(types, msg.Type)
			}
		default:
			return types
		}
	}
}

func decodeFrame(t *testing.T, msg domain.Message) domain.Frame {
	t.Helper()
	var frame domain.Frame
	require.NoError(t, json.Unmarshal(msg.Payload, &frame))
	return frame
}

// flush waits until everything queued on the loop before it has run
func flush(t *testing.T, h *Hub) {
	t.Helper()
	_, err := h.StarCount(context.Background())
	require.NoError(t, err)
}

func TestHub_RegisterSendsIdentityHistoryFrame(t *testing.T) {
	f := startHub(t, testHubConfig())

	_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "Read", Domain: "Study"})
	require.NoError(t, err)

	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))
	flush(t, f.hub)

	types := drain(client)
	require.Equal(t, []domain.MessageType{
		domain.MessageTypeIdentity,
		domain.MessageTypeEvent,
		domain.MessageTypeFrame,
	}, types)
	assert.Equal(t, 1, f.hub.ClientCount())
}

func TestHub_IdentityCarriesViewerAndDomains(t *testing.T) {
	f := startHub(t, testHubConfig())
	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))

	msg := nextMessage(t, client, domain.MessageTypeIdentity)
	var identity domain.IdentityPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &identity))
	assert.Equal(t, client.ID, identity.ViewerID)
	assert.Equal(t, "test", identity.Galaxy)
	assert.Len(t, identity.Domains, 3)
}

func TestHub_CreateStarBroadcastsAndPersists(t *testing.T) {
	f := startHub(t, testHubConfig())
	a, b := newMockClient(f.hub), newMockClient(f.hub)
	require.NoError(t, f.hub.Register(a))
	require.NoError(t, f.hub.Register(b))
	flush(t, f.hub)
	drain(a)
	drain(b)

	star, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{
		Name: "Write report", Domain: "Work", Minutes: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "#00ffff", star.Color)

	for _, c := range []*Client{a, b} {
		frame := decodeFrame(t, nextMessage(t, c, domain.MessageTypeFrame))
		require.Len(t, frame.Stars, 1)
		assert.Equal(t, star.ID, frame.Stars[0].ID)
	}

	saved := f.saved(t)
	require.Len(t, saved, 1)
	assert.Equal(t, "Write report", saved[0].Name)
	require.NotNil(t, saved[0].Remaining)
	assert.Equal(t, 60, *saved[0].Remaining)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StarsCreated))
}

func TestHub_CreateStarValidation(t *testing.T) {
	f := startHub(t, testHubConfig())

	_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "  ", Domain: "Work"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "Run", Domain: "Hobby"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "domain", verr.Field)

	n, err := f.hub.StarCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.saved(t))
}

func TestHub_ValidationErrorOnlyToRequester(t *testing.T) {
	f := startHub(t, testHubConfig())
	a, b := newMockClient(f.hub), newMockClient(f.hub)
	require.NoError(t, f.hub.Register(a))
	require.NoError(t, f.hub.Register(b))
	flush(t, f.hub)
	drain(a)
	drain(b)

	require.True(t, a.dispatch([]byte(`{"type":"create_star","payload":{"name":"","domain":"Work"}}`)))
	flush(t, f.hub)

	msg := nextMessage(t, a, domain.MessageTypeValidationError)
	var payload domain.ValidationErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "name", payload.Field)
	assert.Equal(t, "Name required!", payload.Message)

	assert.NotContains(t, drain(b), domain.MessageTypeValidationError)
}

func TestClient_DispatchIgnoresGarbage(t *testing.T) {
	f := startHub(t, testHubConfig())
	c := newMockClient(f.hub)

	assert.False(t, c.dispatch([]byte("not json")))
	assert.False(t, c.dispatch([]byte(`{"payload":{}}`)))
	assert.True(t, c.dispatch([]byte(`{"type":"wheel","payload":{"deltaY":10}}`)))
}

func TestClient_IntentFromUnregisteredClientIgnored(t *testing.T) {
	f := startHub(t, testHubConfig())
	c := newMockClient(f.hub)

	c.dispatch([]byte(`{"type":"create_star","payload":{"name":"Ghost","domain":"Work"}}`))
	n, err := f.hub.StarCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHub_TimerStarGoesSupernova(t *testing.T) {
	f := startHub(t, testHubConfig())
	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))

	star, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{
		Name: "Tea", Domain: "Personal", Seconds: 3,
	})
	require.NoError(t, err)

	msg := nextMessage(t, client, domain.MessageTypeSupernova)
	var payload domain.SupernovaPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, star.ID, payload.ID)

	require.Eventually(t, func() bool {
		n, err := f.hub.StarCount(context.Background())
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Empty(t, f.saved(t))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StarsRemoved.WithLabelValues("supernova")))
}

func TestHub_TimerlessStarNeverExpires(t *testing.T) {
	f := startHub(t, testHubConfig())
	_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "Someday", Domain: "Study"})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	snaps, err := f.hub.Snapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Nil(t, snaps[0].Remaining)
}

func TestHub_DismissIsIdempotent(t *testing.T) {
	f := startHub(t, testHubConfig())
	star, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "Email", Domain: "Work"})
	require.NoError(t, err)

	ok, err := f.hub.DismissStar(context.Background(), star.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.hub.DismissStar(context.Background(), star.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a leaving star cannot be dismissed twice")

	require.Eventually(t, func() bool {
		n, err := f.hub.StarCount(context.Background())
		return err == nil && n == 0
	}, time.Second, 10*time.Millisecond)

	ok, err = f.hub.DismissStar(context.Background(), star.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StarsRemoved.WithLabelValues("dismissed")))
}

func TestHub_DismissRacingExpiryRemovesOnce(t *testing.T) {
	cfg := testHubConfig()
	cfg.ExpiryGrace = 50 * time.Millisecond
	f := startHub(t, cfg)
	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))

	star, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{
		Name: "Race", Domain: "Work", Seconds: 1,
	})
	require.NoError(t, err)

	// Once the supernova starts the click must be a no-op
	nextMessage(t, client, domain.MessageTypeSupernova)
	ok, err := f.hub.DismissStar(context.Background(), star.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.Eventually(t, func() bool {
		n, err := f.hub.StarCount(context.Background())
		return err == nil && n == 0
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StarsRemoved.WithLabelValues("supernova")))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.StarsRemoved.WithLabelValues("dismissed")))
}

func TestHub_WheelWrapsDepth(t *testing.T) {
	f := startHub(t, testHubConfig())
	_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{
		Name: "Deploy", Domain: "Work", Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)

	require.NoError(t, f.hub.Wheel(context.Background(), 1000))
	snaps, err := f.hub.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NearDepth+800, snaps[0].Z)

	require.NoError(t, f.hub.Wheel(context.Background(), 1000))
	snaps, err = f.hub.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(domain.DepthMin), snaps[0].Z)
	assert.Equal(t, float64(domain.DepthMin), f.saved(t)[0].Z)
}

func TestHub_WheelClampsDepth(t *testing.T) {
	cfg := testHubConfig()
	cfg.Store.Depth = galaxy.DepthRange{Min: domain.DepthMin, Max: domain.DepthMax, Policy: galaxy.DepthClamp}
	f := startHub(t, cfg)
	_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "Plan", Domain: "Study"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, f.hub.Wheel(context.Background(), 1000))
	}
	snaps, err := f.hub.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(domain.DepthMax), snaps[0].Z)
}

func TestHub_ResetRequiresConfirm(t *testing.T) {
	f := startHub(t, testHubConfig())
	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))
	_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "A", Domain: "Work"})
	require.NoError(t, err)

	client.dispatch([]byte(`{"type":"reset","payload":{"confirm":false}}`))
	n, err := f.hub.StarCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	client.dispatch([]byte(`{"type":"reset","payload":{"confirm":true}}`))
	n, err = f.hub.StarCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	_, found, err := f.kv.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHub_ResizeRendersForViewer(t *testing.T) {
	f := startHub(t, testHubConfig())
	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))
	flush(t, f.hub)
	drain(client)

	client.dispatch([]byte(`{"type":"resize","payload":{"width":640,"height":480}}`))
	frame := decodeFrame(t, nextMessage(t, client, domain.MessageTypeFrame))
	assert.Equal(t, domain.Viewport{Width: 640, Height: 480}, frame.Viewport)
}

func TestHub_LoadRestoresPersistedStars(t *testing.T) {
	kv := persistence.NewMemoryKV()
	persist := persistence.NewAdapter(kv, testKey, nil)
	remaining := 42
	require.NoError(t, persist.Save(context.Background(), []domain.StarSnapshot{
		{ID: "a", Name: "Old", Domain: "Work", Z: -800, Color: "#00ffff", Remaining: &remaining},
		{ID: "b", Name: "Gone", Domain: "Hobby", Z: -800, Color: "#123456"},
	}))

	core, logs := observer.New(zap.InfoLevel)
	hub := NewHub("test", testHubConfig(), persist, zap.New(core), nil)
	require.NoError(t, hub.Load(context.Background()))
	go hub.Run()
	defer hub.Stop()

	snaps, err := hub.Snapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Old", snaps[0].Name)

	loaded := logs.FilterMessage("Galaxy loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, testKey, loaded[0].ContextMap()["key"])
	assert.EqualValues(t, 1, loaded[0].ContextMap()["stars"])
}

func TestHub_IdleShutdownAndRegisterAfterStop(t *testing.T) {
	f := startHub(t, testHubConfig())
	idle := make(chan struct{})
	f.hub.SetOnIdle(func(h *Hub) {
		close(idle)
		h.Stop()
	})

	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))
	f.hub.Unregister(client)

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("idle galaxy was not shut down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.hub.Wait(ctx))

	assert.ErrorIs(t, f.hub.Register(newMockClient(f.hub)), ErrGalaxyStopped)
	_, err := f.hub.StarCount(context.Background())
	assert.ErrorIs(t, err, ErrGalaxyStopped)
}

func TestHub_SlowViewerDropSchedulesShutdown(t *testing.T) {
	f := startHub(t, testHubConfig())
	idle := make(chan struct{})
	f.hub.SetOnIdle(func(h *Hub) {
		close(idle)
		h.Stop()
	})

	// Room for the identity message only, so the join frame overflows
	client := newMockClient(f.hub)
	client.send = make(chan []byte, 1)
	require.NoError(t, f.hub.Register(client))
	flush(t, f.hub)
	assert.Equal(t, 0, f.hub.ClientCount())

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("galaxy emptied by a slow viewer was not shut down")
	}
}

func TestHub_HistoryReplayFitsSendBuffer(t *testing.T) {
	cfg := testHubConfig()
	cfg.TickInterval = time.Hour
	cfg.HistorySize = 300
	f := startHub(t, cfg)

	for i := 0; i < 300; i++ {
		_, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{
			Name: fmt.Sprintf("Task %d", i), Domain: "Work",
		})
		require.NoError(t, err)
	}

	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))
	flush(t, f.hub)
	assert.Equal(t, 1, f.hub.ClientCount())

	types := drain(client)
	require.Len(t, types, sendBuffer)
	assert.Equal(t, domain.MessageTypeIdentity, types[0])
	assert.Equal(t, domain.MessageTypeFrame, types[len(types)-1])
}

func TestHub_ReturningViewerCancelsShutdown(t *testing.T) {
	cfg := testHubConfig()
	cfg.ShutdownGrace = 80 * time.Millisecond
	f := startHub(t, cfg)
	var idled atomic.Bool
	f.hub.SetOnIdle(func(h *Hub) { idled.Store(true) })

	first := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(first))
	f.hub.Unregister(first)
	require.NoError(t, f.hub.Register(newMockClient(f.hub)))

	time.Sleep(150 * time.Millisecond)
	assert.False(t, idled.Load())
}

func TestHub_StopFinishesPendingExits(t *testing.T) {
	cfg := testHubConfig()
	cfg.DismissDelay = time.Hour
	f := startHub(t, cfg)

	star, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{Name: "Bye", Domain: "Work"})
	require.NoError(t, err)
	_, err = f.hub.DismissStar(context.Background(), star.ID)
	require.NoError(t, err)

	f.hub.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.hub.Wait(ctx))

	assert.Empty(t, f.saved(t))
}

func TestHub_ShipReleaseScenario(t *testing.T) {
	f := startHub(t, testHubConfig())
	client := newMockClient(f.hub)
	require.NoError(t, f.hub.Register(client))

	// High priority Work task, no timer
	client.dispatch([]byte(`{"type":"create_star","payload":{"name":"Ship release","domain":"Work","priority":"high"}}`))
	snaps, err := f.hub.Snapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, float64(domain.NearDepth), snaps[0].Z)
	assert.Equal(t, "#00ffff", snaps[0].Color)
	assert.Len(t, f.saved(t), 1)

	// Scroll forward
	client.dispatch([]byte(`{"type":"wheel","payload":{"deltaY":1000}}`))
	snaps, err = f.hub.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(domain.NearDepth)+800, snaps[0].Z)

	// A 5 second task runs out
	timed, err := f.hub.CreateStar(context.Background(), domain.CreateStarRequest{
		Name: "Stretch", Domain: "Personal", Seconds: 5,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snaps, err := f.hub.Snapshots(context.Background())
		if err != nil {
			return false
		}
		for _, s := range snaps {
			if s.ID == timed.ID {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)

	saved := f.saved(t)
	require.Len(t, saved, 1)
	assert.Equal(t, "Ship release", saved[0].Name)
}
