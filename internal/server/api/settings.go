package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/store"
)

// SessionControl is the slice of the running session the settings API
// needs: reading and replacing the live thresholds and counting policy.
type SessionControl interface {
	Thresholds() counter.Thresholds
	SetThresholds(counter.Thresholds)
	Policy() counter.Policy
	SetPolicy(counter.Policy)
}

// SettingsHandler reads and updates the classifier settings. Updates are
// persisted and, when a session is attached, applied live.
type SettingsHandler struct {
	store   *store.Store
	session SessionControl
}

// NewSettingsHandler creates a new SettingsHandler. session may be nil,
// in which case updates only persist.
func NewSettingsHandler(s *store.Store, session SessionControl) *SettingsHandler {
	return &SettingsHandler{store: s, session: session}
}

type settingsPayload struct {
	ThumbIndexThreshold  float64 `json:"thumb_index_threshold"`
	IndexMiddleThreshold float64 `json:"index_middle_threshold"`
	LittleAlwaysUp       bool    `json:"little_always_up"`
}

// ServeHTTP routes GET and PUT /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// get handles GET /api/settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	payload := settingsPayload{
		ThumbIndexThreshold:  counter.DefaultThresholds().ThumbIndex,
		IndexMiddleThreshold: counter.DefaultThresholds().IndexMiddle,
		LittleAlwaysUp:       counter.DefaultPolicy().LittleAlwaysUp,
	}

	if h.session != nil {
		th := h.session.Thresholds()
		payload.ThumbIndexThreshold = th.ThumbIndex
		payload.IndexMiddleThreshold = th.IndexMiddle
		payload.LittleAlwaysUp = h.session.Policy().LittleAlwaysUp
	} else {
		settings := h.store.Settings()
		if v, err := settings.GetFloat(store.SettingThumbIndexThreshold); err == nil {
			payload.ThumbIndexThreshold = v
		}
		if v, err := settings.GetFloat(store.SettingIndexMiddleThreshold); err == nil {
			payload.IndexMiddleThreshold = v
		}
		if v, err := settings.GetBool(store.SettingLittleAlwaysUp); err == nil {
			payload.LittleAlwaysUp = v
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

// update handles PUT /api/settings.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	th := counter.Thresholds{
		ThumbIndex:  payload.ThumbIndexThreshold,
		IndexMiddle: payload.IndexMiddleThreshold,
	}
	if !th.Valid() {
		writeError(w, http.StatusBadRequest, "Thresholds must not be negative")
		return
	}

	settings := h.store.Settings()
	if err := settings.SetFloat(store.SettingThumbIndexThreshold, th.ThumbIndex); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	if err := settings.SetFloat(store.SettingIndexMiddleThreshold, th.IndexMiddle); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	if err := settings.SetBool(store.SettingLittleAlwaysUp, payload.LittleAlwaysUp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	if h.session != nil {
		h.session.SetThresholds(th)
		h.session.SetPolicy(counter.Policy{LittleAlwaysUp: payload.LittleAlwaysUp})
	}

	writeJSON(w, http.StatusOK, payload)
}
