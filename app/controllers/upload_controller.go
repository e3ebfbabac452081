package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rsharma-dev/inventra/pkg/response"
	"github.com/rsharma-dev/inventra/pkg/storage"
)

const maxUploadBytes = 5 << 20 // 5 MB

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Store accepts a multipart "image" file, writes it to the default disk
// under a random name, and returns the public URL reference.
func (c *UploadController) Store(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		response.Error(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		response.FromError(w, err)
		return
	}
	path := hex.EncodeToString(buf) + ext

	if err := storage.PutStream(path, file); err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]string{"imageUrl": storage.URL(path)})
}
