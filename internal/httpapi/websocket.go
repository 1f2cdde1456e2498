package httpapi

import (
	"net/http"
	"time"

	"github.com/abdoElHodaky/nanofill/internal/cache"
	pool "github.com/abdoElHodaky/nanofill/internal/common/pool"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var envelopes = pool.NewEnvelopePool()

const writeTimeout = 5 * time.Second

// newSnapshotWebSocketHandler backs the /ws/latency route: it streams every
// published BookSnapshot to the connecting client until it disconnects or a
// write stalls past writeTimeout. The current snapshot, if any, is sent on
// connect; the entrypoint publishes one snapshot after the pipeline has
// finished, so a client sees the final book state rather than per-batch
// updates.
func newSnapshotWebSocketHandler(snap *cache.SnapshotCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ch := make(chan cache.BookSnapshot, 8)
		unsubscribe := snap.Subscribe(ch)
		defer unsubscribe()

		if current, ok := snap.Get(); ok {
			if !sendSnapshot(conn, current) {
				return
			}
		}

		for update := range ch {
			if !sendSnapshot(conn, update) {
				return
			}
		}
	}
}

func sendSnapshot(conn *websocket.Conn, snap cache.BookSnapshot) bool {
	env := envelopes.Get()
	defer envelopes.Put(env)

	env.Type = "book_snapshot"
	env.Channel = "book"
	env.Data = snap

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(env) == nil
}
