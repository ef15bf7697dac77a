package product

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// =========================
// 🟢 UPLOAD IMAGE PRODUIT
// =========================
func (h *Handler) UploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format d'image non supporté"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur préparation du répertoire d'upload"})
		return
	}

	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dest := filepath.Join(h.UploadDir, name)

	out, err := os.Create(dest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur écriture du fichier"})
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(dest)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur écriture du fichier"})
		return
	}

	imagePath := "/uploads/" + name
	log.Println("✅ Image uploadée :", imagePath)
	c.JSON(http.StatusOK, gin.H{
		"message":    "Image uploadée avec succès",
		"image_path": imagePath,
	})
}

// =========================
// 🔴 SUPPRIMER UNE IMAGE
// =========================
func (h *Handler) DeleteProductImage(c *gin.Context) {
	var req struct {
		ImagePath string `json:"image_path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'image_path' est obligatoire"})
		return
	}

	name := filepath.Base(strings.TrimPrefix(req.ImagePath, "/uploads/"))
	if name == "" || name == "." || name == ".." {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chemin d'image invalide"})
		return
	}

	if err := os.Remove(filepath.Join(h.UploadDir, name)); err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression de l'image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image supprimée avec succès"})
}
