package httpserve

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/embtrace/embtrace/wire"
)

func encodeFrame(payload []byte) []byte {
	return append(wire.EncodeCOBS(payload), 0x00)
}

func TestUploadThenFetchRoundTrips(t *testing.T) {
	r := NewRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	body := encodeFrame([]byte{0x02, 0x01}) // TsResolutionNs(1)

	resp, err := http.Post(srv.URL+"/traces?core_count=1&mode=bare-metal", "application/octet-stream", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /traces: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /traces: status = %d", resp.StatusCode)
	}
	var uploadResp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		t.Fatalf("decoding upload response: %v", err)
	}
	if uploadResp.SessionID == "" {
		t.Fatal("upload response had no session_id")
	}

	fetchResp, err := http.Get(srv.URL + "/traces/" + uploadResp.SessionID)
	if err != nil {
		t.Fatalf("GET /traces/{id}: %v", err)
	}
	defer fetchResp.Body.Close()
	if fetchResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /traces/{id}: status = %d", fetchResp.StatusCode)
	}
	out, err := io.ReadAll(fetchResp.Body)
	if err != nil {
		t.Fatalf("reading trace response: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("fetched trace was empty")
	}
}

func TestFetchUnknownSessionIs404(t *testing.T) {
	r := NewRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/traces/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
