package helpers

import (
	"net/http"

	"github.com/unrolled/render"
)

func WriteSuccess(rnd *render.Render, w http.ResponseWriter, status int, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	_ = rnd.JSON(w, status, body)
}

func WriteError(rnd *render.Render, w http.ResponseWriter, status int, message string) {
	WriteErrorWithFields(rnd, w, status, message, nil)
}

// WriteErrorWithFields writes the failure envelope plus extra top-level fields.
// success and message always win over a field of the same name.
func WriteErrorWithFields(rnd *render.Render, w http.ResponseWriter, status int, message string, fields map[string]interface{}) {
	body := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = false
	body["message"] = message
	_ = rnd.JSON(w, status, body)
}

func WriteValidationError(rnd *render.Render, w http.ResponseWriter, message string, fields map[string]string) {
	WriteErrorWithFields(rnd, w, http.StatusBadRequest, message, map[string]interface{}{"errors": fields})
}
