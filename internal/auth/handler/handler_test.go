package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"clinicore/internal/auth/service"
)

// stubResolver resolves a single fixed login pair.
type stubResolver struct {
	login    string
	password string
	role     service.Role
}

func (r *stubResolver) Authenticate(_ context.Context, login, password string) (service.Role, bool) {
	if login == r.login && password == r.password {
		return r.role, true
	}
	return "", false
}

type AuthHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *AuthHandlerSuite) SetupTest() {
	resolver := &stubResolver{login: "44051401359", password: "s3cret", role: service.RoleDoctor}
	handler := New(resolver, slog.New(slog.DiscardHandler), nil)

	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) postLogin(body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AuthHandlerSuite) TestLogin() {
	s.Run("resolves a role", func() {
		rec := s.postLogin(map[string]string{"login": "44051401359", "password": "s3cret"})
		s.Equal(http.StatusOK, rec.Code)

		var resp map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("DOCTOR", resp["role"])
	})

	s.Run("failure is a uniform 401", func() {
		wrongPassword := s.postLogin(map[string]string{"login": "44051401359", "password": "nope"})
		unknownUser := s.postLogin(map[string]string{"login": "999", "password": "nope"})

		s.Equal(http.StatusUnauthorized, wrongPassword.Code)
		s.Equal(http.StatusUnauthorized, unknownUser.Code)
		// Identical envelopes: the response must not reveal which half failed.
		s.JSONEq(wrongPassword.Body.String(), unknownUser.Body.String())
	})

	s.Run("malformed body is a 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing fields are a 400", func() {
		rec := s.postLogin(map[string]string{"login": "", "password": ""})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
