package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"nhooyr.io/websocket"
)

// Prefix is the path under which all dashboard routes are mounted.
const Prefix = "/_scamshield/"

//go:embed static/dashboard.html
var staticFS embed.FS

// Handler returns an http.Handler that serves the dashboard routes.
// All routes are under /_scamshield/.
func Handler(hub *Hub) http.Handler {
	mux := http.NewServeMux()

	// Dashboard HTML
	mux.HandleFunc(Prefix, func(w http.ResponseWriter, r *http.Request) {
		data, err := staticFS.ReadFile("static/dashboard.html")
		if err != nil {
			http.Error(w, "dashboard not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})

	// WebSocket endpoint. Cross-origin connections are rejected.
	mux.HandleFunc(Prefix+"ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		c := hub.register(conn)
		defer hub.unregister(c)

		// CloseRead discards client messages; its context ends when the
		// client disconnects.
		ctx := conn.CloseRead(r.Context())
		c.writeLoop(ctx)
	})

	// REST: stats snapshot
	mux.HandleFunc(Prefix+"api/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, hub.StatsSnapshot())
	})

	// REST: recent events, newest first
	mux.HandleFunc(Prefix+"api/events", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		writeJSON(w, hub.Events().Recent(limit))
	})

	// REST: policy
	mux.HandleFunc(Prefix+"api/policy", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, hub.PolicyConfig())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Run starts the periodic stats broadcast in background.
func Run(ctx context.Context, hub *Hub) {
	go hub.StartStatsBroadcast(ctx, 5*time.Second)
}
