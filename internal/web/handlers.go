package web

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/cjeanneret/ledpanel/internal/debug"
	"github.com/cjeanneret/ledpanel/internal/frontend"
	"github.com/cjeanneret/ledpanel/internal/hw/led"
)

// Switch is the LED behind the /H, /L and /T routes.
type Switch interface {
	On() error
	Off() error
	Toggle() error
	State() led.State
	Pin() int
}

// LEDStatus is the JSON body of GET /api/led.
type LEDStatus struct {
	Pin   int       `json:"pin"`
	State led.State `json:"state"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	LED         Switch
	Assets      *frontend.Registry
	Metrics     *Metrics
	limiter     *rate.Limiter
}

// NewHandlers creates handlers with the given dependencies.
// If sw is nil, the LED routes return 503 Service Unavailable.
// toggleRate and burst bound how often /H and /L may be hit.
func NewHandlers(broadcaster *StatusBroadcaster, sw Switch, assets *frontend.Registry, metrics *Metrics, toggleRate rate.Limit, burst int) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		LED:         sw,
		Assets:      assets,
		Metrics:     metrics,
		limiter:     rate.NewLimiter(toggleRate, burst),
	}
}

// ServeIndex serves the admin page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	h.writeAsset(w, frontend.AdminPageName)
}

// ServeAsset returns a handler writing the asset registered under name.
func (h *Handlers) ServeAsset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeAsset(w, name)
	}
}

func (h *Handlers) writeAsset(w http.ResponseWriter, name string) {
	a, ok := h.Assets.Lookup(name)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", a.ContentType())
	w.Write(a.Bytes())
}

// HandleLEDOn handles GET /H.
func (h *Handlers) HandleLEDOn(w http.ResponseWriter, r *http.Request) {
	h.switchLED(w, r, Switch.On)
}

// HandleLEDOff handles GET /L.
func (h *Handlers) HandleLEDOff(w http.ResponseWriter, r *http.Request) {
	h.switchLED(w, r, Switch.Off)
}

// HandleLEDToggle handles GET /T.
func (h *Handlers) HandleLEDToggle(w http.ResponseWriter, r *http.Request) {
	h.switchLED(w, r, Switch.Toggle)
}

// switchLED applies op to the LED. HEAD is refused so that link
// prefetchers never change the LED.
func (h *Handlers) switchLED(w http.ResponseWriter, r *http.Request, op func(Switch) error) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.LED == nil {
		http.Error(w, "LED not configured", http.StatusServiceUnavailable)
		return
	}
	if !h.limiter.Allow() {
		h.Metrics.RateLimitDropped.Inc()
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	if err := op(h.LED); err != nil {
		debug.Error(err)
		h.Broadcaster.Broadcast("error", "LED switch failed: "+err.Error())
		http.Error(w, "LED switch failed", http.StatusInternalServerError)
		return
	}

	state := h.LED.State()
	h.Metrics.LEDSwitches.WithLabelValues(string(state)).Inc()
	h.Broadcaster.BroadcastState(state)

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleState serves the LED state fragment.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	if h.LED == nil {
		http.Error(w, "LED not configured", http.StatusServiceUnavailable)
		return
	}
	a, ok := h.Assets.Lookup(frontend.StateName)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	body, err := a.Render(map[string]string{"state": string(h.LED.State())})
	if err != nil {
		debug.Error(err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", a.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(body))
}

// HandleLEDStatus returns the LED pin and state as JSON.
func (h *Handlers) HandleLEDStatus(w http.ResponseWriter, r *http.Request) {
	if h.LED == nil {
		http.Error(w, "LED not configured", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LEDStatus{Pin: h.LED.Pin(), State: h.LED.State()})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()
	h.Metrics.StreamClients.Inc()
	defer h.Metrics.StreamClients.Dec()
	debug.Live("SSE client connected from %s", r.RemoteAddr)

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

const heartbeatInterval = 30 * time.Second
