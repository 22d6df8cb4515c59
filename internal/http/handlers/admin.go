package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/http/response"
	"github.com/yungbote/reactions-backend/internal/services"
)

type AdminHandler struct {
	policyAdmin      services.PolicyAdminService
	auditService     services.AuditService
	reconcileService services.ReconcileService
}

func NewAdminHandler(policyAdmin services.PolicyAdminService, auditService services.AuditService, reconcileService services.ReconcileService) *AdminHandler {
	return &AdminHandler{
		policyAdmin:      policyAdmin,
		auditService:     auditService,
		reconcileService: reconcileService,
	}
}

// GET /admin/policy
func (ah *AdminHandler) GetPolicy(c *gin.Context) {
	policy := ah.policyAdmin.Current(c.Request.Context())
	response.RespondOK(c, gin.H{"policy": policy.Config()})
}

// PUT /admin/policy
// body: PhantomPolicyConfig
func (ah *AdminHandler) UpdatePolicy(c *gin.Context) {
	var cfg services.PhantomPolicyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ah.policyAdmin.Update(c.Request.Context(), cfg); err != nil {
		response.RespondError(c, http.StatusBadRequest, "policy_update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /admin/reconcile
func (ah *AdminHandler) Reconcile(c *gin.Context) {
	report, err := ah.reconcileService.Run(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "reconcile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}

// GET /admin/audit?user_id=...&category_ids=a,b&limit=100
func (ah *AdminHandler) ListAudit(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}

	if rawUser := c.Query("user_id"); rawUser != "" {
		userID, err := uuid.Parse(rawUser)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
			return
		}
		rows, err := ah.auditService.ListForUser(c.Request.Context(), userID, limit)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "audit_failed", err)
			return
		}
		response.RespondOK(c, gin.H{"phantom_reactions": rows})
		return
	}

	rawCategories := c.Query("category_ids")
	if rawCategories == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_filter", nil)
		return
	}
	var categoryIDs []uuid.UUID
	for _, part := range strings.Split(rawCategories, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		categoryIDs = append(categoryIDs, id)
	}
	rows, err := ah.auditService.ListForCategories(c.Request.Context(), categoryIDs, limit)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "audit_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"phantom_reactions": rows})
}
