package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"trek-planner/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"
)

type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func startHub(t *testing.T) (*Hub, *Surface) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub("test")
	go hub.Run(ctx)
	return hub, NewSurface(hub)
}

func TestSurfaceStreamsMapUpdates(t *testing.T) {
	hub, surface := startHub(t)
	conn := dial(t, hub)

	if m := read(t, conn); m.Type != "init" {
		t.Fatalf("first message = %q, want init", m.Type)
	}

	h := surface.AddMarker(orb.Point{2.35, 48.85})
	m := read(t, conn)
	if m.Type != "marker_added" {
		t.Fatalf("type = %q", m.Type)
	}
	var marker markerData
	if err := json.Unmarshal(m.Data, &marker); err != nil {
		t.Fatal(err)
	}
	if marker.Handle != int64(h) || marker.Point != [2]float64{2.35, 48.85} {
		t.Fatalf("marker = %+v", marker)
	}

	surface.RouteFailed("no route found")
	m = read(t, conn)
	if m.Type != "route_failed" || !strings.Contains(string(m.Data), "no route found") {
		t.Fatalf("message = %s %s", m.Type, m.Data)
	}
}

func TestLateClientReceivesBoard(t *testing.T) {
	hub, surface := startHub(t)

	surface.AddMarker(orb.Point{2.35, 48.85})
	gone := surface.AddMarker(orb.Point{4.85, 45.75})
	surface.RemoveMarker(gone)
	surface.AddRoute(orb.LineString{{2.35, 48.85}, {4.85, 45.75}})
	surface.FitBounds(orb.Bound{Min: orb.Point{2.35, 45.75}, Max: orb.Point{4.85, 48.85}})

	deadline := time.Now().Add(2 * time.Second)
	for len(hub.broadcast) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	conn := dial(t, hub)
	m := read(t, conn)
	if m.Type != "init" {
		t.Fatalf("type = %q, want init", m.Type)
	}

	var b struct {
		Markers []markerData `json:"markers"`
		Route   *struct {
			Geometry struct {
				Type        string       `json:"type"`
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"route"`
		Bounds []float64 `json:"bounds"`
	}
	if err := json.Unmarshal(m.Data, &b); err != nil {
		t.Fatal(err)
	}
	if len(b.Markers) != 1 || b.Markers[0].Point != [2]float64{2.35, 48.85} {
		t.Fatalf("markers = %+v", b.Markers)
	}
	if b.Route == nil || b.Route.Geometry.Type != "LineString" || len(b.Route.Geometry.Coordinates) != 2 {
		t.Fatalf("route = %+v", b.Route)
	}
	if len(b.Bounds) != 4 || b.Bounds[3] != 48.85 {
		t.Fatalf("bounds = %v", b.Bounds)
	}
}

func TestTimedOutClientIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub("test")
	hub.writeWait = -time.Second
	go hub.Run(ctx)

	dial(t, hub)
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish("bounds", nil)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want the timed out client dropped", hub.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRemoveRouteOnlyClearsMatchingHandle(t *testing.T) {
	hub, surface := startHub(t)

	old := surface.AddRoute(orb.LineString{{0, 0}, {1, 1}})
	surface.AddRoute(orb.LineString{{1, 1}, {2, 2}})
	surface.RemoveRoute(old)

	if got := hub.board.snapshot(); got.Route == nil {
		t.Fatal("newer route was cleared by a stale handle")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub("idle")
	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.Publish("route", &domain.Route{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a running hub")
	}
}

func TestBrokerRemoveStopsHub(t *testing.T) {
	b := NewBroker(context.Background())
	b.Surface("s1")

	hub, ok := b.Hub("s1")
	if !ok {
		t.Fatal("hub not registered")
	}
	b.Remove("s1")
	if _, ok := b.Hub("s1"); ok {
		t.Fatal("hub still registered")
	}

	select {
	case <-hub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}
