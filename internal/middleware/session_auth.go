package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// SessionName est le nom du cookie de session admin.
const SessionName = "papeterie_admin"

// SessionAuth vérifie la session cookie et place l'identité admin dans le
// contexte. Sans session valide, aucune opération métier n'est tentée.
func SessionAuth(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, SessionName)
		if err != nil || session.IsNew {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session invalide ou expirée"})
			return
		}

		adminID, ok := session.Values["admin_id"].(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session invalide ou expirée"})
			return
		}

		c.Set("admin_id", adminID)
		if email, ok := session.Values["email"].(string); ok {
			c.Set("email", email)
		}
		if role, ok := session.Values["role"].(string); ok {
			c.Set("role", role)
		}
		c.Next()
	}
}
