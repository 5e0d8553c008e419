package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sendmenow/sendmenow/internal/app"
	"github.com/sendmenow/sendmenow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPhoto = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("photo-bytes")...)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	contentDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "legal"), 0o755))
	terms := "---\ntitle: Terms and Conditions\nlastUpdated: 2026-08-01\n---\n\n## Terms\n\nBe nice.\n"
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "legal", "terms-and-conditions.md"), []byte(terms), 0o644))

	uploadDir := filepath.Join(t.TempDir(), "uploads")

	cfg := &config.Config{
		AppName:                  "SendMeNow",
		AppEnv:                   "development",
		Port:                     "0",
		FrontendURL:              "http://localhost:3000",
		ContentPath:              contentDir,
		DBDriver:                 "sqlite",
		DBConnection:             filepath.Join(t.TempDir(), "app.db"),
		JWTSecret:                "test-secret",
		JWTExpiry:                time.Hour,
		TokenPasswordResetExpiry: time.Hour,
		EmailHost:                "smtp.example.com",
		EmailPort:                587,
		EmailFrom:                "noreply@sendmenow.com",
		UploadDir:                uploadDir,
		MaxUploadSize:            10 << 20,
		StorageDriver:            "local",
	}

	application, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	server := httptest.NewServer(SetupRoutes(application))
	t.Cleanup(server.Close)
	return server, uploadDir
}

// stagedUploads lists regular files at the top of the upload directory,
// i.e. temp copies of in-flight uploads. Cache copies live under photos/.
func stagedUploads(t *testing.T, uploadDir string) []string {
	t.Helper()

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return res, decodeJSON(t, res)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	return res, decodeJSON(t, res)
}

func decodeJSON(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = res.Body.Close() }()

	var data map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&data))
	return data
}

func TestRegisterLoginSendAndInbox(t *testing.T) {
	server, uploadDir := newTestServer(t)

	// Register
	res, data := postJSON(t, server.URL+"/api/users", map[string]string{
		"userName":     "alice",
		"userEmail":    "alice@example.com",
		"userPassword": "secret123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, true, data["success"])
	assert.NotNil(t, data["userId"])

	// Login
	res, data = postJSON(t, server.URL+"/api/login", map[string]string{
		"userName":     "alice",
		"userPassword": "secret123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice", user["userName"])
	senderID := fmt.Sprintf("%v", user["id"])

	// Wrong password is a uniform 401
	res, data = postJSON(t, server.URL+"/api/login", map[string]string{
		"userName":     "alice",
		"userPassword": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Invalid username or password", data["message"])

	// Send a photo to an unregistered recipient
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("photo", "sunset.png")
	require.NoError(t, err)
	_, err = fw.Write(testPhoto)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("recipientEmail", "b@x.com"))
	require.NoError(t, w.WriteField("message", "Look at this sunset"))
	require.NoError(t, w.WriteField("senderId", senderID))
	require.NoError(t, w.Close())

	res, err = http.Post(server.URL+"/api/send-photo", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	data = decodeJSON(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode, data["message"])
	assert.Equal(t, "Photo sent successfully!", data["message"])
	assert.NotNil(t, data["dbMessageId"])

	// The recipient's inbox lists the message with a photo link
	res, data = getJSON(t, server.URL+"/api/received-messages?userEmail=b%40x.com")
	require.Equal(t, http.StatusOK, res.StatusCode)
	messages := data["messages"].([]any)
	require.Len(t, messages, 1)
	entry := messages[0].(map[string]any)
	assert.Equal(t, "alice", entry["senderName"])
	assert.Equal(t, "Look at this sunset", entry["message"])
	photoURL, ok := entry["photoUrl"].(string)
	require.True(t, ok, "expected a photoUrl on a message with a photo")

	// The photo downloads byte for byte
	photoRes, err := http.Get(server.URL + photoURL)
	require.NoError(t, err)
	defer func() { _ = photoRes.Body.Close() }()
	require.Equal(t, http.StatusOK, photoRes.StatusCode)
	assert.Equal(t, "image/png", photoRes.Header.Get("Content-Type"))
	body, err := io.ReadAll(photoRes.Body)
	require.NoError(t, err)
	assert.Equal(t, testPhoto, body)

	// The temp copy staged for the email attachment is gone; only the
	// photos/ cache directory remains in the upload area
	assert.Empty(t, stagedUploads(t, uploadDir))
}

func TestRegisterRequiresAllFields(t *testing.T) {
	server, _ := newTestServer(t)

	res, data := postJSON(t, server.URL+"/api/users", map[string]string{
		"userName":  "alice",
		"userEmail": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "All fields are required", data["message"])

	// No account was created
	res, _ = postJSON(t, server.URL+"/api/login", map[string]string{
		"userName":     "alice",
		"userPassword": "anything",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSendPhotoValidation(t *testing.T) {
	server, uploadDir := newTestServer(t)

	// Missing photo
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("recipientEmail", "b@x.com"))
	require.NoError(t, w.WriteField("message", "no photo attached"))
	require.NoError(t, w.Close())

	res, err := http.Post(server.URL+"/api/send-photo", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	data := decodeJSON(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Photo is required", data["message"])

	// Non-image upload
	buf.Reset()
	w = multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("photo", "notes.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("definitely not a picture"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("recipientEmail", "b@x.com"))
	require.NoError(t, w.WriteField("message", "hello"))
	require.NoError(t, w.Close())

	res, err = http.Post(server.URL+"/api/send-photo", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	data = decodeJSON(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, data["message"], "only image files are allowed")

	// Nothing was left staged by the rejected requests
	assert.Empty(t, stagedUploads(t, uploadDir))
}

func TestStaticClientServed(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	page := string(body)
	assert.Contains(t, page, "SendMeNow")
	for _, view := range []string{"view-register", "view-login", "view-forgot", "view-reset", "view-send", "view-inbox", "view-market", "view-qr", "view-terms"} {
		assert.Contains(t, page, view)
	}
	assert.Contains(t, page, "Marketplace")
}

func TestForgotPasswordIsEnumerationSafe(t *testing.T) {
	server, _ := newTestServer(t)

	_, _ = postJSON(t, server.URL+"/api/users", map[string]string{
		"userName":     "alice",
		"userEmail":    "alice@example.com",
		"userPassword": "secret123",
	})

	resKnown, dataKnown := postJSON(t, server.URL+"/api/forgot-password", map[string]string{
		"userEmail": "alice@example.com",
	})
	resUnknown, dataUnknown := postJSON(t, server.URL+"/api/forgot-password", map[string]string{
		"userEmail": "ghost@example.com",
	})

	assert.Equal(t, http.StatusOK, resKnown.StatusCode)
	assert.Equal(t, http.StatusOK, resUnknown.StatusCode)
	assert.Equal(t, dataKnown["message"], dataUnknown["message"])
}

func TestResetPasswordRejectsBadToken(t *testing.T) {
	server, _ := newTestServer(t)

	res, data := postJSON(t, server.URL+"/api/reset-password", map[string]string{
		"token":       "bogus",
		"userEmail":   "alice@example.com",
		"newPassword": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Invalid or expired reset token", data["message"])

	res, data = postJSON(t, server.URL+"/api/reset-password", map[string]string{
		"token":       "bogus",
		"userEmail":   "alice@example.com",
		"newPassword": "short",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Password must be at least 6 characters long", data["message"])
}

func TestHealthAndEmailConfig(t *testing.T) {
	server, _ := newTestServer(t)

	res, data := getJSON(t, server.URL+"/api/health")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Server is running", data["status"])

	res, data = getJSON(t, server.URL+"/api/email-config")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	cfg := data["config"].(map[string]any)
	assert.Equal(t, false, cfg["configured"])
	assert.Equal(t, "smtp.example.com", cfg["host"])
}

func TestTermsPage(t *testing.T) {
	server, _ := newTestServer(t)

	res, data := getJSON(t, server.URL+"/api/terms")
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := data["page"].(map[string]any)
	assert.Equal(t, "Terms and Conditions", page["title"])
	assert.Contains(t, page["content"], "Be nice")
}

func TestProfileQR(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/api/profile-qr?data=" + "https%3A%2F%2Fexample.com%2Fsend")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body[:4])

	res, err = http.Get(server.URL + "/api/profile-qr")
	require.NoError(t, err)
	data := decodeJSON(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Data parameter is required", data["message"])
}

func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", res.Header.Get("Access-Control-Allow-Credentials"))
}
