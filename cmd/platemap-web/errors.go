package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func JSONError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	usedCode := http.StatusInternalServerError
	if len(code) > 0 {
		usedCode = code[0]
	}
	h.log.Println(r.Host, r.URL.Path, ":", usedCode, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(usedCode)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(struct {
		Success bool
		Message string
	}{
		false,
		err.Error(),
	})
}

func (h *handler) NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(h, w, r, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path), http.StatusNotFound)
}
