package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/httpresp"
	"github.com/quiroferreira/clinic-scheduler/internal/middleware"
)

type AccessHandler struct {
	gate *accessgate.Gate
}

func NewAccessHandler(gate *accessgate.Gate) *AccessHandler {
	return &AccessHandler{gate: gate}
}

// Me reports the caller's own scheduling-access state.
func (h *AccessHandler) Me(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	grant, err := h.gate.Check(c.Request.Context(), professionalID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeNoSchedulingAccess) {
			httpresp.OK(c, gin.H{"granted": false})
			return
		}
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"granted":    true,
		"expires_at": grant.ExpiresAt,
		"reason":     grant.Reason,
	})
}
