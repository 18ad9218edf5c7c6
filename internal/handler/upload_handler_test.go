package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inklog/internal/db"
)

func iconUploadBody(t *testing.T, fieldContentType string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("encode fixture image: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="icon"; filename="avatar.png"`)
	header.Set("Content-Type", fieldContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(encoded.Bytes()); err != nil {
		t.Fatalf("write multipart part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func TestUploadIconStoresResizedPNG(t *testing.T) {
	api, gdb := setupHandlerAPI(t, "upload-icon")
	engine := newTestEngine(api)

	registerUser(t, engine, "alice", "alice@example.com", "secret")
	cookies := loginUser(t, engine, "alice", "secret")

	body, contentType := iconUploadBody(t, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/profile/settings/icon", body)
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	resp := decodeJSON(t, w)
	iconURL, _ := resp["icon"].(string)
	if !strings.HasPrefix(iconURL, "/uploads/icon-") || !strings.HasSuffix(iconURL, ".png") {
		t.Fatalf("unexpected icon url: %q", iconURL)
	}

	stored := filepath.Join(api.uploadDir, filepath.Base(iconURL))
	f, err := os.Open(stored)
	if err != nil {
		t.Fatalf("open stored icon: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode stored icon: %v", err)
	}
	if bounds := decoded.Bounds(); bounds.Dx() != iconSize || bounds.Dy() != iconSize {
		t.Fatalf("expected %dx%d icon, got %dx%d", iconSize, iconSize, bounds.Dx(), bounds.Dy())
	}

	var profile db.UserProfile
	if err := gdb.First(&profile).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if profile.Icon != iconURL {
		t.Fatalf("expected profile icon %q, got %q", iconURL, profile.Icon)
	}
}

func TestUploadIconRejectsNonImage(t *testing.T) {
	api, _ := setupHandlerAPI(t, "upload-icon-bad-type")
	engine := newTestEngine(api)

	registerUser(t, engine, "alice", "alice@example.com", "secret")
	cookies := loginUser(t, engine, "alice", "secret")

	body, contentType := iconUploadBody(t, "text/plain")
	req := httptest.NewRequest(http.MethodPost, "/profile/settings/icon", body)
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := decodeJSON(t, w); resp["error"] != "Only image files are allowed" {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
}

func TestUploadIconRequiresFile(t *testing.T) {
	api, _ := setupHandlerAPI(t, "upload-icon-missing")
	engine := newTestEngine(api)

	registerUser(t, engine, "alice", "alice@example.com", "secret")
	cookies := loginUser(t, engine, "alice", "secret")

	w := doRequest(engine, http.MethodPost, "/profile/settings/icon", nil, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := decodeJSON(t, w); resp["error"] != "No icon uploaded" {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
}
