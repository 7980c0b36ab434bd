package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"my-social/middleware"
	"my-social/repository"
	"my-social/storage"
)

const (
	msgBadRequest     = "잘못된 요청입니다."
	msgUnauthorized   = "로그인이 필요합니다."
	msgNotFound       = "요청한 항목을 찾을 수 없습니다."
	msgConflict       = "이미 존재하는 항목입니다."
	msgInternal       = "요청을 처리하는 중 오류가 발생했습니다."
	msgLoginFailed    = "아이디 또는 비밀번호가 올바르지 않습니다."
	msgSelfFollow     = "자기 자신을 팔로우할 수 없습니다."
	msgImageTooLarge  = "이미지 크기는 5MB 이하여야 합니다."
	msgImageInvalid   = "지원하지 않는 이미지 형식입니다."
	maxRequestBody    = 8 << 20
	defaultFeedLimit  = 20
	maxFeedLimit      = 100
	searchResultLimit = 20
)

// validationError carries the message shown to the user as is.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(msg string) error {
	return &validationError{msg: msg}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps err onto a status and user facing message. Anything not
// recognized is logged and reported with one generic message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		errorJSON(w, http.StatusBadRequest, ve.msg)
	case errors.Is(err, repository.ErrNotFound):
		errorJSON(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, repository.ErrAlreadyExists):
		errorJSON(w, http.StatusConflict, msgConflict)
	case errors.Is(err, repository.ErrInvalidCredentials):
		errorJSON(w, http.StatusUnauthorized, msgLoginFailed)
	case errors.Is(err, repository.ErrInvalidCursor):
		errorJSON(w, http.StatusBadRequest, msgBadRequest)
	case errors.Is(err, repository.ErrSelfFollow):
		errorJSON(w, http.StatusBadRequest, msgSelfFollow)
	case errors.Is(err, storage.ErrImageTooLarge):
		errorJSON(w, http.StatusBadRequest, msgImageTooLarge)
	case errors.Is(err, storage.ErrInvalidDataURI), errors.Is(err, storage.ErrUnsupportedImage):
		errorJSON(w, http.StatusBadRequest, msgImageInvalid)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		errorJSON(w, http.StatusInternalServerError, msgInternal)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid(msgBadRequest)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(msgBadRequest)
	}
	return id, nil
}

// queryInt reads a positive integer query parameter, clamped to max.
func queryInt(r *http.Request, name string, def, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalid(msgBadRequest)
	}
	if n > max {
		n = max
	}
	return n, nil
}

// currentUserID returns the authenticated caller or writes 401.
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, msgUnauthorized)
		return 0, false
	}
	return id, true
}

// viewerID returns the caller when one is attached, or zero.
func viewerID(r *http.Request) int64 {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

func logPublish(event string, err error) {
	if err != nil {
		log.Printf("failed to publish %s: %v", event, err)
	}
}


