package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/apex/log"

	"herbula/api/internal/plant"
)

var maxBodyBytes int64 = 32 << 20

// Suggestions: POST /GenerateSuggestions. Любая ошибка превращается в
// {ok:false, message} со статусом 400.
func (h *Handle) Suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, plant.Failure(errors.New("POST only")))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	log.Info("POST /GenerateSuggestions received")

	var req plant.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, fmt.Errorf("request body too large: limit is %d bytes", tooLarge.Limit))
			return
		}
		fail(w, errors.New("bad json: "+err.Error()))
		return
	}
	req.Source = "http"

	ctx, cancel := requestContext(r)
	defer cancel()

	id, err := h.svc.Identify(ctx, req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plant.Success(id))
}

func fail(w http.ResponseWriter, err error) {
	log.WithError(err).Warn("suggestions failed")
	writeJSON(w, http.StatusBadRequest, plant.Failure(err))
}
