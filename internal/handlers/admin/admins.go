package admin

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/models"
	"papeterie_back_end/internal/utils"
)

// Handler regroupe les endpoints d'administration : comptes admin,
// journal d'audit, import/export et sauvegardes.
type Handler struct {
	DB *database.Store
}

// GetAdmins liste les comptes admin (sans les hash de mots de passe).
func (h *Handler) GetAdmins(c *gin.Context) {
	rows, err := h.DB.Query(`SELECT id, email, name, role, created_at FROM admins ORDER BY id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture admins"})
		return
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture admins"})
			return
		}
		admins = append(admins, a)
	}

	c.JSON(http.StatusOK, admins)
}

// CreateAdmin crée un nouveau compte admin.
func (h *Handler) CreateAdmin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	if input.Role == "" {
		input.Role = "admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hachage du mot de passe"})
		return
	}

	res, err := h.DB.Exec(
		`INSERT INTO admins (email, password_hash, name, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		input.Email, string(hash), input.Name, input.Role,
		time.Now().UTC().Format(time.RFC3339),
	)
	if database.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur création admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création admin"})
		return
	}

	id, _ := res.LastInsertId()
	utils.LogAction(h.DB, c, utils.ActionAdminCreate, utils.EntityAdmin, &id, gin.H{"email": input.Email})

	log.Println("✅ Admin créé :", input.Email)
	c.JSON(http.StatusCreated, gin.H{"id": id, "email": input.Email})
}

// DeleteAdmin supprime un compte admin. Un admin ne peut jamais supprimer
// son propre compte : rejeté avant toute écriture.
func (h *Handler) DeleteAdmin(c *gin.Context) {
	adminID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID admin invalide"})
		return
	}

	if currentID := c.GetInt64("admin_id"); currentID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible de supprimer son propre compte"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM admins WHERE id = ?`, adminID)
	if err != nil {
		log.Printf("❌ Erreur suppression admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin introuvable"})
		return
	}

	utils.LogAction(h.DB, c, utils.ActionAdminDelete, utils.EntityAdmin, &adminID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Admin supprimé avec succès"})
}

// CreateBackup déclenche une sauvegarde horodatée de la base.
func (h *Handler) CreateBackup(c *gin.Context) {
	path, err := h.DB.Backup()
	if err != nil {
		log.Printf("❌ Erreur sauvegarde: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la sauvegarde"})
		return
	}

	log.Println("💾 Sauvegarde créée :", path)
	c.JSON(http.StatusOK, gin.H{"message": "Sauvegarde créée", "path": path})
}
