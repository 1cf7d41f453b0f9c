package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/logger"
	"github.com/scottcagno/hashlab/pkg/metrics"
	"github.com/scottcagno/hashlab/pkg/util"
)

// reply mirrors the response envelope with the payload left raw
type reply struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, reply) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var rep reply
	if strings.HasPrefix(rec.Header().Get("Content-Type"), ContentTypeApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
			t.Fatalf("%s %s: decoding %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, rep
}

func newSession(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	code, rep := do(t, h, http.MethodPost, "/v1/sessions", body)
	if code != http.StatusCreated {
		t.Fatalf("create session: %d %s", code, rep.Error)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rep.Data, &created); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	return created.ID
}

func Test_Server_RoundTrip(t *testing.T) {
	srv := NewServer(WithLogger(logger.Discard()))
	id := newSession(t, srv, `{"capacity":10,"strategy":"quadratic","hash":"division"}`)
	base := "/v1/sessions/" + id

	for _, k := range []string{"5", "15", "25"} {
		code, rep := do(t, srv, http.MethodPost, base+"/keys/"+k, "")
		util.AssertExpected(t, http.StatusCreated, code)
		util.AssertExpected(t, "", rep.Error)
	}

	code, rep := do(t, srv, http.MethodGet, base+"/keys/25", "")
	util.AssertExpected(t, http.StatusOK, code)
	var found common.SearchResult
	util.AssertNoError(t, json.Unmarshal(rep.Data, &found))
	util.AssertTrue(t, found.Found)
	util.AssertExpected(t, 4, found.Slot)
	util.AssertExpected(t, []int{5, 6, 4}, found.Sequence)

	code, rep = do(t, srv, http.MethodGet, base+"/stats", "")
	util.AssertExpected(t, http.StatusOK, code)
	var snap struct {
		ElementCount int     `json:"elementCount"`
		TotalProbes  int     `json:"totalProbes"`
		LoadFactor   float64 `json:"loadFactor"`
	}
	util.AssertNoError(t, json.Unmarshal(rep.Data, &snap))
	util.AssertExpected(t, 3, snap.ElementCount)
	util.AssertExpected(t, 6, snap.TotalProbes)
	util.AssertExpected(t, 0.3, snap.LoadFactor)

	code, _ = do(t, srv, http.MethodDelete, base+"/keys/15", "")
	util.AssertExpected(t, http.StatusOK, code)

	code, rep = do(t, srv, http.MethodGet, base+"/layout", "")
	util.AssertExpected(t, http.StatusOK, code)
	var layout struct {
		Slots []struct {
			State string `json:"state"`
			Key   int    `json:"key"`
		} `json:"slots"`
	}
	util.AssertNoError(t, json.Unmarshal(rep.Data, &layout))
	util.AssertExpected(t, 10, len(layout.Slots))
	util.AssertExpected(t, "tombstone", layout.Slots[6].State)
	util.AssertExpected(t, 25, layout.Slots[4].Key)
}

func Test_Server_Errors(t *testing.T) {
	srv := NewServer(WithLogger(logger.Discard()))
	id := newSession(t, srv, `{"capacity":2,"strategy":"linear"}`)
	base := "/v1/sessions/" + id

	code, _ := do(t, srv, http.MethodPost, base+"/keys/1", "")
	util.AssertExpected(t, http.StatusCreated, code)
	code, rep := do(t, srv, http.MethodPost, base+"/keys/1", "")
	util.AssertExpected(t, http.StatusConflict, code)
	util.AssertTrue(t, strings.Contains(rep.Error, "duplicate"))
	code, _ = do(t, srv, http.MethodPost, base+"/keys/3", "")
	util.AssertExpected(t, http.StatusCreated, code)
	code, _ = do(t, srv, http.MethodPost, base+"/keys/5", "")
	util.AssertExpected(t, http.StatusConflict, code)

	code, _ = do(t, srv, http.MethodPost, base+"/keys/-1", "")
	util.AssertExpected(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodPost, base+"/keys/abc", "")
	util.AssertExpected(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodDelete, base+"/keys/9", "")
	util.AssertExpected(t, http.StatusNotFound, code)

	// a miss is not an error
	code, rep = do(t, srv, http.MethodGet, base+"/keys/9", "")
	util.AssertExpected(t, http.StatusOK, code)
	util.AssertExpected(t, "", rep.Error)

	code, _ = do(t, srv, http.MethodGet, "/v1/sessions/not-a-session/stats", "")
	util.AssertExpected(t, http.StatusNotFound, code)
	code, _ = do(t, srv, http.MethodGet, "/v1/sessions/6f1c2d43-7a0e-4b8e-9c55-1f6f1f2b7a10/stats", "")
	util.AssertExpected(t, http.StatusNotFound, code)

	code, _ = do(t, srv, http.MethodPost, "/v1/sessions", `{"capacity":0}`)
	util.AssertExpected(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodPost, "/v1/sessions", `{"strategy":"cuckoo"}`)
	util.AssertExpected(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodPost, "/v1/sessions", `{`)
	util.AssertExpected(t, http.StatusBadRequest, code)
}

func Test_Server_Configure(t *testing.T) {
	srv := NewServer(WithLogger(logger.Discard()))
	id := newSession(t, srv, "")
	base := "/v1/sessions/" + id

	code, _ := do(t, srv, http.MethodPost, base+"/keys/10", "")
	util.AssertExpected(t, http.StatusCreated, code)

	code, rep := do(t, srv, http.MethodPut, base+"/config", `{"capacity":5,"strategy":"chaining","hash":"midsquare"}`)
	util.AssertExpected(t, http.StatusOK, code)
	var conf struct {
		Capacity int    `json:"capacity"`
		Strategy string `json:"strategy"`
		Hash     string `json:"hash"`
	}
	util.AssertNoError(t, json.Unmarshal(rep.Data, &conf))
	util.AssertExpected(t, 5, conf.Capacity)
	util.AssertExpected(t, "chaining", conf.Strategy)
	util.AssertExpected(t, "midsquare", conf.Hash)

	// the old key went away with the old table
	_, rep = do(t, srv, http.MethodGet, base+"/keys/10", "")
	var res common.SearchResult
	util.AssertNoError(t, json.Unmarshal(rep.Data, &res))
	util.AssertFalse(t, res.Found)

	// a rejected config keeps the current one
	code, _ = do(t, srv, http.MethodPut, base+"/config", `{"capacity":-1}`)
	util.AssertExpected(t, http.StatusBadRequest, code)
	_, rep = do(t, srv, http.MethodGet, base+"/config", "")
	util.AssertNoError(t, json.Unmarshal(rep.Data, &conf))
	util.AssertExpected(t, 5, conf.Capacity)
}

func Test_Server_CloseSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := NewServer(WithLogger(logger.Discard()), WithMetrics(metrics.New(reg), reg))
	id := newSession(t, srv, "")
	util.AssertExpected(t, 1, srv.Sessions())

	code, _ := do(t, srv, http.MethodDelete, "/v1/sessions/"+id, "")
	util.AssertExpected(t, http.StatusOK, code)
	util.AssertExpected(t, 0, srv.Sessions())
	code, _ = do(t, srv, http.MethodDelete, "/v1/sessions/"+id, "")
	util.AssertExpected(t, http.StatusNotFound, code)
}

func Test_Server_HealthAndMetrics(t *testing.T) {
	srv := NewServer(WithLogger(logger.Discard()))
	id := newSession(t, srv, "")
	do(t, srv, http.MethodPost, "/v1/sessions/"+id+"/keys/7", "")

	code, _ := do(t, srv, http.MethodGet, "/health", "")
	util.AssertExpected(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	util.AssertExpected(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	util.AssertTrue(t, strings.Contains(body, `hashlab_operations_total{op="insert",outcome="ok",strategy="linear"} 1`))
	util.AssertTrue(t, strings.Contains(body, "hashlab_sessions 1"))

	code, _ = do(t, srv, http.MethodGet, "/nowhere", "")
	util.AssertExpected(t, http.StatusNotFound, code)
}

func Test_StatusFor(t *testing.T) {
	util.AssertExpected(t, http.StatusOK, StatusFor(nil))
	util.AssertExpected(t, http.StatusNotFound, StatusFor(ErrUnknownSession))
	util.AssertExpected(t, http.StatusNotFound, StatusFor(common.ErrNotFound))
	util.AssertExpected(t, http.StatusConflict, StatusFor(common.ErrTableFull))
	util.AssertExpected(t, http.StatusConflict, StatusFor(common.ErrDuplicateKey))
	util.AssertExpected(t, http.StatusBadRequest, StatusFor(common.ErrInvalidKey))
	util.AssertExpected(t, http.StatusBadRequest, StatusFor(common.ErrInvalidCapacity))
	util.AssertExpected(t, http.StatusServiceUnavailable, StatusFor(ErrTooManySessions))
	util.AssertExpected(t, http.StatusInternalServerError, StatusFor(http.ErrHandlerTimeout))
}

func Test_Server_SessionLimit(t *testing.T) {
	srv := NewServer(WithLogger(logger.Discard()), WithSessionLimit(2))
	first := newSession(t, srv, "")
	newSession(t, srv, "")

	code, rep := do(t, srv, http.MethodPost, "/v1/sessions", "")
	util.AssertExpected(t, http.StatusServiceUnavailable, code)
	util.AssertTrue(t, strings.Contains(rep.Error, "too many sessions"))
	util.AssertExpected(t, 2, srv.Sessions())

	// closing one makes room again
	code, _ = do(t, srv, http.MethodDelete, "/v1/sessions/"+first, "")
	util.AssertExpected(t, http.StatusOK, code)
	newSession(t, srv, "")
	util.AssertExpected(t, 2, srv.Sessions())
}
