package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"papeterie_back_end/internal/config"
	"papeterie_back_end/internal/database"
	"papeterie_back_end/internal/routes"
)

func main() {
	config.Load()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	store, err := database.Open(dataDir)
	if err != nil {
		log.Fatalf("❌ Impossible d'ouvrir la base: %v", err)
	}
	defer store.Close()

	if err := store.Seed(); err != nil {
		log.Fatalf("❌ Échec du seed: %v", err)
	}

	// Compte admin issu de la configuration, upsert à chaque démarrage
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail != "" {
		if err := store.BootstrapAdmin(adminEmail, os.Getenv("ADMIN_PASSWORD"), os.Getenv("ADMIN_NAME")); err != nil {
			log.Fatalf("❌ Échec du bootstrap admin: %v", err)
		}
	} else {
		log.Println("⚠️ ADMIN_EMAIL absent — aucun admin bootstrap")
	}

	if err := store.WarmupStatements(); err != nil {
		log.Fatalf("❌ Échec préparation des requêtes: %v", err)
	}

	// Sauvegarde horodatée à chaque démarrage
	if path, err := store.Backup(); err != nil {
		log.Printf("⚠️ Sauvegarde de démarrage impossible: %v", err)
	} else {
		log.Println("💾 Sauvegarde de démarrage :", path)
	}

	sessionStore := newSessionStore()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join(dataDir, "uploads")
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("❌ Impossible de créer le répertoire d'uploads: %v", err)
	}

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		DB:        store,
		Sessions:  sessionStore,
		UploadDir: uploadDir,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur catalogue lancé sur le port", port)
	r.Run(":" + port)
}

func newSessionStore() sessions.Store {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("❌ SESSION_SECRET manquant dans .env")
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(86400 * 7)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
