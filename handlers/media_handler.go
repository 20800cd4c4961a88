package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/auction-system/services"
)

const maxUploadBytes = 10 << 20 // 10MB per request

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadLogo принимает один файл в поле "logo" и возвращает публичный URL.
func (h *MediaHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing logo file: %w", err))
		return
	}
	defer file.Close()

	url, err := h.mediaService.UploadLogo(r.Context(), services.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type removeMediaInput struct {
	Key string `json:"key"`
}

// RemoveMedia удаляет загруженный объект по ключу хранилища, например старый
// логотип после повторной загрузки.
func (h *MediaHandler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	var input removeMediaInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.mediaService.Remove(r.Context(), input.Key); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": input.Key}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadPhotos accepts any number of files in the "photos" field and uploads
// them concurrently; URLs come back in input order.
func (h *MediaHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["photos"]) == 0 {
		mapServiceErrorToHTTP(w, r, services.ErrMediaFileRequired)
		return
	}

	files := make([]services.MediaFile, 0, len(r.MultipartForm.File["photos"]))
	for _, header := range r.MultipartForm.File["photos"] {
		file, err := header.Open()
		if err != nil {
			serverErrorResponse(w, r, err)
			return
		}

		// Буферизуем до закрытия, чтобы параллельные загрузки не делили
		// один открытый файл.
		buffered, err := services.ReadAllMediaFile(header.Filename, header.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			serverErrorResponse(w, r, err)
			return
		}
		files = append(files, buffered)
	}

	urls, err := h.mediaService.UploadPhotos(r.Context(), files)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"urls": urls}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
