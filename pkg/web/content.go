package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

var ContentTypeApplicationJSON = "application/json"

func ContentType(w http.ResponseWriter, ct string) {
	w.Header().Set("Content-Type", fmt.Sprintf("%s; charset=utf-8", ct))
}

// envelope wraps every json body the server writes
type envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Response writes data wrapped in an envelope with the given status code
func Response(w http.ResponseWriter, code int, data interface{}) {
	write(w, envelope{
		Code:    code,
		Message: http.StatusText(code),
		Data:    data,
	})
}

// ResponseError writes err along with any partial result in data. The status
// code is picked by StatusFor.
func ResponseError(w http.ResponseWriter, err error, data interface{}) {
	code := StatusFor(err)
	write(w, envelope{
		Code:    code,
		Message: http.StatusText(code),
		Error:   err.Error(),
		Data:    data,
	})
}

func write(w http.ResponseWriter, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		code := http.StatusInternalServerError
		http.Error(w, http.StatusText(code), code)
		return
	}
	ContentType(w, ContentTypeApplicationJSON)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(env.Code)
	w.Write(append(data, '\n'))
}
