package httputil

import (
	"encoding/json"
	"net/http"
	"strings"
)

func JoinURL(s1, s2 string) string {
	if strings.HasSuffix(s1, "/") {
		if strings.HasPrefix(s2, "/") {
			return s1 + s2[1:]
		}
		return s1 + s2
	}

	if strings.HasPrefix(s2, "/") {
		return s1 + s2
	}
	return s1 + "/" + s2
}

func ServeJSONStatus(w http.ResponseWriter, v any, statusCode int) {
	d, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(d)
}

func ServeJSON(w http.ResponseWriter, v any) {
	ServeJSONStatus(w, v, http.StatusOK)
}
