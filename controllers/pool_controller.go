package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"unmasked_server/models"
	"unmasked_server/services"
	"unmasked_server/utils"

	"github.com/gorilla/mux"
)

// PoolController relays pool membership and confession requests to the
// provider under the operator identity.
type PoolController struct {
	Membership  *services.MembershipService
	Confessions *services.ConfessionService
	Logger      *slog.Logger
}

func NewPoolController(membership *services.MembershipService, confessions *services.ConfessionService, logger *slog.Logger) *PoolController {
	if logger == nil {
		logger = slog.Default()
	}
	return &PoolController{
		Membership:  membership,
		Confessions: confessions,
		Logger:      logger.With("component", "controllers.PoolController"),
	}
}

// HandleListPools returns the configured pools.
func (c *PoolController) HandleListPools(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"pools": models.SortedPools()})
}

// HandleJoinPool adds accountId to the pool's group.
func (c *PoolController) HandleJoinPool(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PoolID    string `json:"poolId"`
		AccountID string `json:"accountId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.PoolID == "" || request.AccountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing poolId or accountId")
		return
	}

	pool, ok := models.LookupPool(request.PoolID)
	if !ok {
		utils.WriteJSONError(w, http.StatusNotFound, "Unknown pool")
		return
	}

	if err := c.Membership.Join(r.Context(), request.AccountID, pool); err != nil {
		c.Logger.Error("❌ join-pool error", "pool", pool.Key, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to join pool")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Added %s to %s", request.AccountID, pool.GroupID),
	})
}

// HandlePostConfession verifies membership, strips the author and uploads
// the confession as the pool.
func (c *PoolController) HandlePostConfession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PoolID    string `json:"poolId"`
		Text      string `json:"text"`
		AccountID string `json:"accountId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.PoolID == "" || request.Text == "" || request.AccountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing poolId, text, or accountId")
		return
	}

	pool, ok := models.LookupPool(request.PoolID)
	if !ok {
		utils.WriteJSONError(w, http.StatusNotFound, "Unknown pool")
		return
	}

	if !c.Membership.CheckMembership(r.Context(), request.AccountID, pool) {
		utils.WriteJSONError(w, http.StatusForbidden, "Not a member of this pool")
		return
	}

	confession, err := c.Confessions.Publish(r.Context(), pool, request.Text)
	if errors.Is(err, models.ErrEmptyConfession) {
		utils.WriteJSONError(w, http.StatusBadRequest, "Confession text is empty")
		return
	}
	if err != nil {
		c.Logger.Error("❌ post-confession error", "pool", pool.Key, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to post confession")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"cid":        confession.ID,
		"txId":       confession.TransactionID,
		"confession": confession,
	})
}

// HandleGetConfessions refreshes and returns a pool feed for a member.
func (c *PoolController) HandleGetConfessions(w http.ResponseWriter, r *http.Request) {
	pool, ok := models.LookupPool(mux.Vars(r)["poolKey"])
	if !ok {
		utils.WriteJSONError(w, http.StatusNotFound, "Unknown pool")
		return
	}

	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "accountId is required")
		return
	}
	if !c.Membership.CheckMembership(r.Context(), accountID, pool) {
		utils.WriteJSONError(w, http.StatusForbidden, "Not a member of this pool")
		return
	}

	confessions, err := c.Confessions.Fetch(r.Context(), pool)
	if err != nil {
		c.Logger.Error("❌ Error fetching confessions", "pool", pool.Key, "error", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch confessions")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"pool":        pool,
		"confessions": confessions,
	})
}

// HandleReact adds one reaction to a confession in the local feed.
func (c *PoolController) HandleReact(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pool, ok := models.LookupPool(vars["poolKey"])
	if !ok {
		utils.WriteJSONError(w, http.StatusNotFound, "Unknown pool")
		return
	}

	var request struct {
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Reaction == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Missing reaction")
		return
	}

	confession, err := c.Confessions.React(vars["id"], pool.GroupID, request.Reaction)
	if errors.Is(err, models.ErrConfessionNotFound) {
		// The feed may not be loaded yet.
		if _, fetchErr := c.Confessions.Fetch(r.Context(), pool); fetchErr == nil {
			confession, err = c.Confessions.React(vars["id"], pool.GroupID, request.Reaction)
		}
	}

	switch {
	case errors.Is(err, models.ErrUnknownReaction):
		utils.WriteJSONError(w, http.StatusBadRequest, "Unknown reaction")
	case errors.Is(err, models.ErrConfessionNotFound):
		utils.WriteJSONError(w, http.StatusNotFound, "Confession not found")
	case err != nil:
		utils.WriteJSONError(w, http.StatusInternalServerError, "Failed to react")
	default:
		utils.WriteJSONResponse(w, http.StatusOK, confession)
	}
}
