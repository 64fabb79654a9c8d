package executor_test

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func writeJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if payload != nil {
		_ = json.NewEncoder(writer).Encode(payload)
	}
}

func jsonDecode(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}

	return nil
}
