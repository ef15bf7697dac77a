package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"papeterie_back_end/internal/models"
)

// GetAuditLogs - Consulter le journal d'audit, du plus récent au plus ancien.
// Filtres : ?entity=, ?action=, ?limit= (max 200).
func (h *Handler) GetAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	query := `SELECT id, admin_id, action, entity, entity_id, details, created_at FROM audit_logs`
	where := []string{}
	args := []any{}

	if entity := c.Query("entity"); entity != "" {
		where = append(where, "entity = ?")
		args = append(args, entity)
	}
	if action := c.Query("action"); action != "" {
		where = append(where, "action = ?")
		args = append(args, action)
	}

	if len(where) > 0 {
		query += " WHERE " + where[0]
		for i := 1; i < len(where); i++ {
			query += " AND " + where[i]
		}
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture du journal d'audit"})
		return
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.Entity, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture du journal d'audit"})
			return
		}
		entries = append(entries, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}
