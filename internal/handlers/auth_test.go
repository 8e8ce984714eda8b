package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/yukikurage/albaranes-api/internal/dto"
)

func (suite *HandlerTestSuite) register(name, email, password, company string) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/users/register", map[string]string{
		"name":         name,
		"email":        email,
		"password":     password,
		"companyName": company,
	}, "")
}

func (suite *HandlerTestSuite) TestRegister_Success() {
	w := suite.register("Ana", "ana@example.com", "password123", "Acme")

	suite.Equal(http.StatusCreated, w.Code)
	var response dto.AuthResponse
	suite.decode(w, &response)
	suite.NotEmpty(response.Token)
	suite.Equal("ana@example.com", response.User.Email)
	suite.Require().NotNil(response.User.CompanyName)
	suite.Equal("Acme", *response.User.CompanyName)

	// The issued token is accepted on protected routes.
	w = suite.do(http.MethodGet, "/api/users/me", nil, response.Token)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestRegister_Errors() {
	suite.Require().Equal(http.StatusCreated, suite.register("Ana", "ana@example.com", "password123", "").Code)

	suite.Equal(http.StatusConflict, suite.register("Ana", "ana@example.com", "password123", "").Code)
	suite.Equal(http.StatusUnprocessableEntity, suite.register("Luis", "luis@example.com", "short", "").Code)
	suite.Equal(http.StatusUnprocessableEntity, suite.register("Luis", "not-an-email", "password123", "").Code)
}

func (suite *HandlerTestSuite) TestLogin() {
	suite.Require().Equal(http.StatusCreated, suite.register("Ana", "ana@example.com", "password123", "").Code)

	w := suite.do(http.MethodPost, "/api/users/login", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	}, "")
	suite.Equal(http.StatusOK, w.Code)
	var response dto.AuthResponse
	suite.decode(w, &response)
	suite.NotEmpty(response.Token)

	// The session cookie alone authenticates too.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}
	me := httptest.NewRecorder()
	suite.router.ServeHTTP(me, req)
	suite.Equal(http.StatusOK, me.Code)

	w = suite.do(http.MethodPost, "/api/users/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "INVALID_CREDENTIALS")
}

func (suite *HandlerTestSuite) TestGetCurrentUser_Unauthenticated() {
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/users/me", nil, "").Code)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/users/me", nil, "garbage").Code)
}
