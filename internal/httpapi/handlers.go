package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
	"github.com/DoyleJ11/bingo-live-backend/internal/session"
)

const viewTimeout = 5 * time.Second

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AdminLogin checks the operator password and reports success. The websocket
// side does its own check on ?admin=; this endpoint exists so an operator UI
// can validate credentials before opening the socket.
func AdminLogin(adminPass string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if adminPass == "" || body.Password != adminPass {
			http.Error(w, "invalid password", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
		}{Success: true})
	}
}

// Patterns returns the full catalog so clients can render the pattern picker
// without opening a socket.
func Patterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pattern.All())
}

func State(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := view(s)
		if !ok {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, stateResponse(v))
	}
}

// ProximityReport gives the operator a per-card closeness breakdown for every
// online player under the active pattern.
func ProximityReport(s *session.Session, adminPass string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if adminPass == "" || r.URL.Query().Get("admin") != adminPass {
			http.Error(w, "invalid password", http.StatusUnauthorized)
			return
		}
		v, ok := view(s)
		if !ok {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, session.ProximityReport(v))
	}
}

func view(s *session.Session) (session.View, bool) {
	reply := make(chan session.View, 1)
	s.Inbox() <- session.GetView{Reply: reply}
	select {
	case v := <-reply:
		return v, true
	case <-time.After(viewTimeout):
		return session.View{}, false
	}
}

func stateResponse(v session.View) any {
	return struct {
		CalledNumbers []int            `json:"calledNumbers"`
		Last5Numbers  []int            `json:"last5Numbers"`
		Pattern       string           `json:"currentPattern"`
		Message       string           `json:"gameMessage"`
		RecentWinners []session.Winner `json:"lastWinners"`
		AutoPlaying   bool             `json:"autoPlaying"`
		Paused        bool             `json:"gamePaused"`
		NumObservers  int              `json:"numObservers"`
		Pool          int              `json:"cardPool"`
		ClaimedCards  []int            `json:"takenCards"`
	}{
		CalledNumbers: v.CalledNumbers,
		Last5Numbers:  v.Last5Numbers,
		Pattern:       v.Pattern,
		Message:       v.Message,
		RecentWinners: v.RecentWinners,
		AutoPlaying:   v.AutoPlaying,
		Paused:        v.Paused,
		NumObservers:  v.NumObservers,
		Pool:          v.Pool,
		ClaimedCards:  v.ClaimedCards,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
