package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"unmasked_server/utils"
)

// HandleAnonymousTip acknowledges a tip. Token transfer needs operator wallet
// signing and is not performed here.
func HandleAnonymousTip(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConfessionID string      `json:"confessionId"`
		Amount       json.Number `json:"amount"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&request); err != nil || request.ConfessionID == "" || request.Amount == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing confessionId or amount")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Tip of %s NEAR acknowledged for confession %s", request.Amount, request.ConfessionID),
		"note":    "Token transfer requires operator wallet signing",
	})
}
