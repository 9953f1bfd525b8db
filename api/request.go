package api

import (
	"thinktrends.com/icsr/pipeline"
	"thinktrends.com/icsr/utils"
	"encoding/json"
	"io"
	"net/http"
)

type Request struct {
	Pipeline pipeline.Pipeline
}

// ProcessData accepts one E2B(R2) XML document per POST body and returns
// the classifier result as JSON.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != "POST" {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:  "api-" + utils.Fingerprint(msg),
		Data: msg,
	}
	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	result := <-req.Pipeline(request)
	buf, err := json.Marshal(result)
	if err != nil {
		logger.Err(err).Int("status", http.StatusInternalServerError).Msg("Could not marshal result")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(buf)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
