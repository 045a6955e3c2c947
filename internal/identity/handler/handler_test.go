package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"clinicore/internal/identity/service"
	"clinicore/internal/identity/store"
)

type RegistryHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *RegistryHandlerSuite) SetupTest() {
	svc, err := service.New(
		store.NewInMemoryPatients(),
		store.NewInMemoryDoctors(),
		store.NewInMemoryNurses(),
	)
	s.Require().NoError(err)
	handler := New(svc, slog.New(slog.DiscardHandler), nil)

	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func (s *RegistryHandlerSuite) SetupSubTest() {
	s.SetupTest()
}

func TestRegistryHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistryHandlerSuite))
}

func (s *RegistryHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RegistryHandlerSuite) patientBody() map[string]any {
	return map[string]any{
		"first_name":  "Anna",
		"last_name":   "Kowalska",
		"age":         82,
		"national_id": "44051401359",
		"password":    "s3cret",
		"birth_date":  "1944-05-14",
		"diagnosis":   "cardiac",
	}
}

func (s *RegistryHandlerSuite) TestRegisterPatient() {
	s.Run("creates and fetches back", func() {
		rec := s.do(http.MethodPost, "/patients", s.patientBody())
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		var created map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
		s.Equal("44051401359", created["national_id"])
		s.Equal("cardiac", created["diagnosis"])
		s.NotContains(rec.Body.String(), "s3cret", "credential material must never appear in responses")

		fetched := s.do(http.MethodGet, "/patients/44051401359", nil)
		s.Equal(http.StatusOK, fetched.Code)
	})

	s.Run("duplicate registration conflicts", func() {
		s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/patients", s.patientBody()).Code)
		s.Equal(http.StatusConflict, s.do(http.MethodPost, "/patients", s.patientBody()).Code)
	})

	s.Run("validation failures map to 400", func() {
		body := s.patientBody()
		body["age"] = 0
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/patients", body).Code)

		body = s.patientBody()
		body["national_id"] = "44051401350"
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/patients", body).Code)

		body = s.patientBody()
		body["birth_date"] = "14/05/1944"
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/patients", body).Code)
	})

	s.Run("unknown patient is a 404", func() {
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/patients/44051401359", nil).Code)
	})
}

func (s *RegistryHandlerSuite) TestRegisterDoctor() {
	body := map[string]any{
		"first_name":     "Jan",
		"last_name":      "Nowak",
		"age":            40,
		"password":       "s3cret",
		"specialization": "cardiologist",
		"available_days": []string{"monday", "friday"},
		"room":           "c-1",
	}

	rec := s.do(http.MethodPost, "/doctors", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal("cardiologist", created["specialization"])
	s.Len(created["national_id"], 11)

	s.Run("unknown weekday is a 400", func() {
		body["available_days"] = []string{"caturday"}
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/doctors", body).Code)
	})
}

func (s *RegistryHandlerSuite) TestRegisterNurse() {
	body := map[string]any{
		"first_name":     "Maria",
		"last_name":      "Lis",
		"age":            25,
		"password":       "s3cret",
		"specialization": "geriatrics",
	}

	rec := s.do(http.MethodPost, "/nurses", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}
