package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"voltshop/apperr"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Println("RespondWithJSON encode error:", err)
	}
}

// RespondWithData wraps payloads in the standard success envelope.
func RespondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondWithJSON(w, statusCode, M{"success": true, "data": data})
}

// RespondWithError translates any error into the uniform failure
// envelope {success:false, message, errorMessages[]}.
func RespondWithError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	RespondWithJSON(w, ae.Status, M{
		"success":       false,
		"message":       ae.Message,
		"errorMessages": []M{{"path": "", "message": ae.Message}},
	})
}
