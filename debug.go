package tessera

import (
	"time"

	"github.com/sirupsen/logrus"
)

// renderStats holds per-frame timing and draw counts.
// Only populated when the renderer's debug flag is set.
type renderStats struct {
	area       TileRect
	layers     int
	tiles      int
	actors     int
	renderTime time.Duration
	actorTime  time.Duration
}

// debugLog writes the frame's stats at debug level.
func (r *Renderer) debugLog() {
	if !r.debug {
		return
	}
	st := r.stats
	log.WithFields(logrus.Fields{
		"area":   st.area,
		"layers": st.layers,
		"tiles":  st.tiles,
		"actors": st.actors,
		"tilesT": st.renderTime,
		"actorT": st.actorTime,
		"total":  st.renderTime + st.actorTime,
	}).Debug("frame")
	r.stats = renderStats{}
}

// debugCheckRemoved warns when a removed actor is used in an operation that
// has no effect on it. Only called in debug mode.
func debugCheckRemoved(a *Actor, op string) {
	if a.Removed() {
		log.WithFields(logrus.Fields{"actor": a.Name, "id": a.ID, "op": op}).
			Warn("operation on removed actor")
	}
}
