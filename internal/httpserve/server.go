package httpserve

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/embtrace/embtrace/evt"
)

const (
	err400 = "bad request: %v"
	err404 = "unknown session: %s"
	err500 = "internal error: %v"
)

// NewRouter builds the trace-conversion HTTP API: an upload endpoint
// that kicks off a background conversion and a polling endpoint that
// blocks (bounded by the request's context) until the result is ready.
func NewRouter() *mux.Router {
	st := newStore()
	r := mux.NewRouter()
	r.HandleFunc("/traces", st.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/traces/{id}", st.handleFetch).Methods(http.MethodGet)
	return r
}

func (st *store) handleUpload(w http.ResponseWriter, req *http.Request) {
	coreCount, err := strconv.Atoi(req.URL.Query().Get("core_count"))
	if err != nil || coreCount <= 0 {
		http.Error(w, "query param core_count must be a positive integer", http.StatusBadRequest)
		return
	}
	mode := evt.ModeBareMetal
	if req.URL.Query().Get("mode") == "freertos" {
		mode = evt.ModeFreeRTOS
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, 256<<20))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	id, err := st.start(coreCount, mode, data)
	if err != nil {
		glog.Errorf("httpserve: starting conversion: %v", err)
		http.Error(w, "starting conversion", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(struct {
		SessionID string `json:"session_id"`
	}{id.String()}); err != nil {
		glog.Errorf("httpserve: encoding upload response: %v", err)
	}
}

func (st *store) handleFetch(w http.ResponseWriter, req *http.Request) {
	idStr := mux.Vars(req)["id"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "malformed session id", http.StatusBadRequest)
		return
	}

	s, ok := st.get(id)
	if !ok {
		http.Error(w, "unknown session id", http.StatusNotFound)
		return
	}

	trace, err := s.wait(req.Context())
	if err != nil {
		glog.Warningf("httpserve: session %s: %v", id, err)
		http.Error(w, "conversion failed or request cancelled", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-protobuf")
	if _, err := w.Write(trace); err != nil {
		glog.Errorf("httpserve: writing trace response: %v", err)
	}
}
