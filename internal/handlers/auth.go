package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/middleware"
	"papeterie_back_end/internal/models"
	"papeterie_back_end/internal/utils"
)

// AuthHandler gère la connexion admin par session cookie.
type AuthHandler struct {
	DB       *database.Store
	Sessions sessions.Store
}

// Login vérifie email + mot de passe et ouvre la session admin.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	var admin models.Admin
	err := h.DB.QueryRow(
		`SELECT id, email, password_hash, name, role, created_at FROM admins WHERE email = ?`,
		input.Email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name, &admin.Role, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture admin"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	session, _ := h.Sessions.Get(c.Request, middleware.SessionName)
	session.Values["admin_id"] = admin.ID
	session.Values["email"] = admin.Email
	session.Values["role"] = admin.Role
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("❌ Erreur sauvegarde session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session"})
		return
	}

	c.Set("admin_id", admin.ID)
	utils.LogAction(h.DB, c, utils.ActionLogin, utils.EntityAuth, &admin.ID, gin.H{"email": admin.Email})

	log.Println("✅ Connexion admin :", admin.Email)
	c.JSON(http.StatusOK, gin.H{
		"id":    admin.ID,
		"email": admin.Email,
		"name":  admin.Name,
		"role":  admin.Role,
	})
}

// Logout invalide la session courante.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, _ := h.Sessions.Get(c.Request, middleware.SessionName)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("⚠️ Erreur invalidation session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// Me retourne l'identité de la session courante.
func (h *AuthHandler) Me(c *gin.Context) {
	adminID := c.GetInt64("admin_id")

	var admin models.Admin
	err := h.DB.QueryRow(
		`SELECT id, email, name, role, created_at FROM admins WHERE id = ?`, adminID,
	).Scan(&admin.ID, &admin.Email, &admin.Name, &admin.Role, &admin.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin introuvable"})
		return
	}
	c.JSON(http.StatusOK, admin)
}
