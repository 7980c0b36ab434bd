package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	models "my-social/model"
	"my-social/repository"
)

const (
	minUsernameLength = 4
	minPasswordLength = 6
	minNicknameLength = 2
)

func validateRegister(in *models.RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Nickname = strings.TrimSpace(in.Nickname)

	if utf8.RuneCountInString(in.Username) < minUsernameLength {
		return invalid("아이디는 4자 이상이어야 합니다.")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return invalid("비밀번호는 6자 이상이어야 합니다.")
	}
	if in.Password != in.PasswordConfirm {
		return invalid("비밀번호가 일치하지 않습니다.")
	}
	if utf8.RuneCountInString(in.Nickname) < minNicknameLength {
		return invalid("닉네임은 2자 이상이어야 합니다.")
	}
	return nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if err := validateRegister(&in); err != nil {
		fail(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(w, r, err)
		return
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		Nickname:     in.Nickname,
	}
	if err := h.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			errorJSON(w, http.StatusConflict, "이미 사용 중인 아이디입니다.")
			return
		}
		fail(w, r, err)
		return
	}

	h.mirrorUser(r, *user)

	resp, err := h.authResponse(user)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		fail(w, r, invalid("아이디와 비밀번호를 입력해주세요."))
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fail(w, r, repository.ErrInvalidCredentials)
			return
		}
		fail(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		fail(w, r, repository.ErrInvalidCredentials)
		return
	}

	h.mirrorUser(r, *user)

	resp, err := h.authResponse(user)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := h.JWT.Generate(user.ID, user.Username, h.AccessExpiry)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int32(h.AccessExpiry.Seconds()),
		User:        *user,
	}, nil
}

// mirrorUser keeps the signed-in user present in the users slot so the
// profile and conversation joins can find them.
func (h *Handler) mirrorUser(r *http.Request, user models.User) {
	if err := h.LocalUsers.Upsert(r.Context(), user); err != nil {
		log.Printf("failed to mirror user %d into slot store: %v", user.ID, err)
	}
}
