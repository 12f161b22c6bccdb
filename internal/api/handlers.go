package api

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"octoscene/internal/mathx"
	"octoscene/internal/octree"
	"octoscene/internal/render"
	"octoscene/internal/scene"
)

// handlers holds the handler functions for the router.
type handlers struct {
	world           WorldInterface
	maxQueryResults int
	frameWidth      int
	frameHeight     int
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// handleGetState returns the full world snapshot.
func (h *handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap := h.world.Snapshot()
	RecordRequest(r.Method, "/api/state", time.Since(start))
	respondJSON(w, http.StatusOK, snap)
}

// handleGetStats returns occupancy counters only.
func (h *handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.world.OctreeStats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tick":   h.world.TickCount(),
		"bodies": h.world.BodyCount(),
		"bounds": h.world.Bounds(),
		"octree": stats,
	})
}

// handleAddBody creates a body from a BodySpec payload.
func (h *handlers) handleAddBody(w http.ResponseWriter, r *http.Request) {
	var spec scene.BodySpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body spec: "+err.Error())
		return
	}

	body, err := h.world.AddBody(spec)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, body)
}

func (h *handlers) bodyID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body id")
		return 0, false
	}
	return uint32(id), true
}

func (h *handlers) handleGetBody(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bodyID(w, r)
	if !ok {
		return
	}
	body, ok := h.world.Body(id)
	if !ok {
		respondError(w, http.StatusNotFound, "body not found")
		return
	}
	respondJSON(w, http.StatusOK, body)
}

func (h *handlers) handleRemoveBody(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bodyID(w, r)
	if !ok {
		return
	}
	if !h.world.RemoveBody(id) {
		respondError(w, http.StatusNotFound, "body not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *handlers) handleMoveBody(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bodyID(w, r)
	if !ok {
		return
	}
	var req struct {
		Center mathx.Vector3 `json:"center"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid move request: "+err.Error())
		return
	}
	if !h.world.MoveBody(id, req.Center) {
		respondError(w, http.StatusNotFound, "body not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"moved": true})
}

func (h *handlers) handleSetVelocity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bodyID(w, r)
	if !ok {
		return
	}
	var req struct {
		Velocity mathx.Vector3 `json:"velocity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid velocity request: "+err.Error())
		return
	}
	if !h.world.SetVelocity(id, req.Velocity) {
		respondError(w, http.StatusNotFound, "body not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// queryRequest selects one query shape. Exactly the field matching Shape
// must be set; Flags and ViewMask default to accept-everything.
type queryRequest struct {
	Shape    string `json:"shape"` // point|sphere|box|frustum|all|ray
	Flags    uint8  `json:"flags"`
	ViewMask uint32 `json:"viewMask"`

	Point  *mathx.Vector3 `json:"point,omitempty"`
	Sphere *struct {
		Center mathx.Vector3 `json:"center"`
		Radius float64       `json:"radius"`
	} `json:"sphere,omitempty"`
	Box     *mathx.BoundingBox `json:"box,omitempty"`
	Frustum *struct {
		Eye    mathx.Vector3 `json:"eye"`
		Target mathx.Vector3 `json:"target"`
		Up     mathx.Vector3 `json:"up"`
		FovDeg float64       `json:"fovDeg"`
		Aspect float64       `json:"aspect"`
		Near   float64       `json:"near"`
		Far    float64       `json:"far"`
	} `json:"frustum,omitempty"`
	Ray *struct {
		Origin      mathx.Vector3 `json:"origin"`
		Direction   mathx.Vector3 `json:"direction"`
		MaxDistance float64       `json:"maxDistance"`
	} `json:"ray,omitempty"`
}

// handleQuery runs one spatial query against the octree.
func (h *handlers) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	flags := req.Flags
	if flags == 0 {
		flags = octree.DrawableAny
	}
	viewMask := req.ViewMask
	if viewMask == 0 {
		viewMask = octree.DefaultViewMask
	}

	start := time.Now()
	var bodies []scene.BodySnapshot
	var hits []scene.RayHit

	switch req.Shape {
	case "point":
		if req.Point == nil {
			respondError(w, http.StatusBadRequest, "point query requires point")
			return
		}
		bodies = h.world.QueryPoint(*req.Point, flags, viewMask)

	case "sphere":
		if req.Sphere == nil || req.Sphere.Radius <= 0 {
			respondError(w, http.StatusBadRequest, "sphere query requires center and positive radius")
			return
		}
		bodies = h.world.QuerySphere(mathx.Sphere{Center: req.Sphere.Center, Radius: req.Sphere.Radius}, flags, viewMask)

	case "box":
		if req.Box == nil || !req.Box.Defined() {
			respondError(w, http.StatusBadRequest, "box query requires a defined box")
			return
		}
		bodies = h.world.QueryBox(*req.Box, flags, viewMask)

	case "frustum":
		if req.Frustum == nil {
			respondError(w, http.StatusBadRequest, "frustum query requires camera parameters")
			return
		}
		f := req.Frustum
		up := f.Up
		if up == (mathx.Vector3{}) {
			up = mathx.Vector3{Y: 1}
		}
		fov := f.FovDeg
		if fov <= 0 {
			fov = 60
		}
		aspect := f.Aspect
		if aspect <= 0 {
			aspect = 1
		}
		near := f.Near
		if near <= 0 {
			near = 0.1
		}
		far := f.Far
		if far <= near {
			far = near + 10000
		}
		frustum := mathx.FrustumFromCamera(f.Eye, f.Target, up, fov*math.Pi/180, aspect, near, far)
		bodies = h.world.QueryFrustum(frustum, flags, viewMask)

	case "all":
		bodies = h.world.QueryAll(flags, viewMask)

	case "ray":
		if req.Ray == nil || req.Ray.Direction == (mathx.Vector3{}) {
			respondError(w, http.StatusBadRequest, "ray query requires origin and direction")
			return
		}
		hits = h.world.Raycast(mathx.NewRay(req.Ray.Origin, req.Ray.Direction), req.Ray.MaxDistance, flags, viewMask)

	default:
		respondError(w, http.StatusBadRequest, "unknown query shape: "+req.Shape)
		return
	}

	elapsed := time.Since(start)

	if req.Shape == "ray" {
		RecordQuery("ray", elapsed, len(hits))
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"shape": "ray",
			"count": len(hits),
			"hits":  hits,
		})
		return
	}

	total := len(bodies)
	truncated := false
	if h.maxQueryResults > 0 && total > h.maxQueryResults {
		bodies = bodies[:h.maxQueryResults]
		truncated = true
	}

	RecordQuery(req.Shape, elapsed, total)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shape":     req.Shape,
		"count":     total,
		"truncated": truncated,
		"bodies":    bodies,
	})
}

// handleDebugFrame renders the current world as a top-down PNG.
func (h *handlers) handleDebugFrame(w http.ResponseWriter, r *http.Request) {
	width, height := h.frameWidth, h.frameHeight
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}

	png, err := render.PNG(h.world.Snapshot(), width, height, nil)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
