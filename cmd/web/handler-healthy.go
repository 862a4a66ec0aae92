package main

import (
	"encoding/json"
	"net/http"
)

type health struct {
	Status      string `json:"status"`
	Submissions int    `json:"submissions"`
}

// healthy reports that the server accepts requests together with the number of stored submissions.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{Status: "ok", Submissions: app.repo.Len()})
}
