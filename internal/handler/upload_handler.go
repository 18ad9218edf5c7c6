package handler

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

const iconSize = 128

// UploadIcon stores an uploaded avatar as a square PNG under the uploads
// dir, updates the profile icon and refreshes the session cache.
func (a *API) UploadIcon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	file, err := c.FormFile("icon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No icon uploaded"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable upload"})
		return
	}
	defer src.Close()

	decoded, _, err := image.Decode(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image format"})
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		log.Printf("create upload dir %q: %v", a.uploadDir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	resized := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), decoded, decoded.Bounds(), draw.Over, nil)

	filename := fmt.Sprintf("icon-%s.png", uuid.New().String())
	out, err := os.Create(filepath.Join(a.uploadDir, filename))
	if err != nil {
		log.Printf("create icon file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	defer out.Close()

	if err := png.Encode(out, resized); err != nil {
		log.Printf("encode icon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	iconURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(a.uploadURL, "/"), filename)
	if err := a.accounts.UpdateIcon(userID, iconURL); err != nil {
		log.Printf("update icon for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyIcon, iconURL)
	if err := session.Save(); err != nil {
		log.Printf("refresh session icon for user %d: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{"icon": iconURL})
}
