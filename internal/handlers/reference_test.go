package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/albaranes-api/internal/dto"
)

func (suite *HandlerTestSuite) TestClients_CreateListGet() {
	_, token := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)

	w := suite.do(http.MethodPost, "/api/client", map[string]string{
		"name":    "Construcciones Norte",
		"cif":     "B12345678",
		"address": "Calle Mayor 1",
	}, token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var client dto.ClientDTO
	suite.decode(w, &client)

	w = suite.do(http.MethodGet, "/api/client?page=1&limit=5", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	var list dto.ClientListResponse
	suite.decode(w, &list)
	suite.Len(list.Clients, 1)
	suite.Equal(int64(1), list.Pagination.Total)
	suite.Equal(5, list.Pagination.Limit)

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, fmt.Sprintf("/api/client/%d", client.ID), nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, fmt.Sprintf("/api/client/%d", client.ID), nil, otherToken).Code)

	w = suite.do(http.MethodPost, "/api/client", map[string]string{"cif": "B1"}, token)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestClients_SharedThroughCompany() {
	company := "Acme"
	alice, _ := suite.createTestUser("alice@acme.test", "Alice", &company)
	_, bobToken := suite.createTestUser("bob@acme.test", "Bob", &company)
	_, outsiderToken := suite.createTestUser("eve@example.com", "Eve", nil)
	client := suite.createTestClient(alice)

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, fmt.Sprintf("/api/client/%d", client.ID), nil, bobToken).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, fmt.Sprintf("/api/client/%d", client.ID), nil, outsiderToken).Code)
}

func (suite *HandlerTestSuite) TestClients_Delete() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	client := suite.createTestClient(user)
	url := fmt.Sprintf("/api/client/%d", client.ID)

	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, url, nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, url, nil, token).Code)
}

func (suite *HandlerTestSuite) TestProjects_CreateRequiresVisibleClient() {
	owner, token := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	client := suite.createTestClient(owner)
	body := map[string]interface{}{"clientId": client.ID, "name": "Reforma", "code": "RF-1"}

	suite.Equal(http.StatusNotFound, suite.do(http.MethodPost, "/api/project", body, otherToken).Code)

	w := suite.do(http.MethodPost, "/api/project", body, token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var project dto.ProjectDTO
	suite.decode(w, &project)
	suite.Equal(client.ID, project.ClientID)

	w = suite.do(http.MethodGet, "/api/project", nil, token)
	suite.Equal(http.StatusOK, w.Code)
	var list dto.ProjectListResponse
	suite.decode(w, &list)
	suite.Len(list.Projects, 1)

	url := fmt.Sprintf("/api/project/%d", project.ID)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, url, nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, url, nil, token).Code)
}

func (suite *HandlerTestSuite) TestClients_UpdateArchiveRecover() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	client := suite.createTestClient(user)
	url := fmt.Sprintf("/api/client/%d", client.ID)

	w := suite.do(http.MethodPut, url, map[string]string{"contactEmail": "obra@norte.es", "phone": "912345678"}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"contactEmail":"obra@norte.es"`)
	var updated dto.ClientDTO
	suite.decode(w, &updated)
	suite.Equal("912345678", updated.Phone)
	suite.Equal("Construcciones Norte", updated.Name)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodPut, url, map[string]string{"phone": "1"}, otherToken).Code)
	suite.Equal(http.StatusUnprocessableEntity, suite.do(http.MethodPut, url, map[string]string{"contactEmail": "nope"}, token).Code)

	suite.Equal(http.StatusOK, suite.do(http.MethodPatch, url+"/archivar", nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodPatch, url+"/archivar", nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, url, nil, token).Code)

	w = suite.do(http.MethodGet, "/api/client/archivados", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var archived struct {
		Clients []dto.ClientDTO `json:"clients"`
	}
	suite.decode(w, &archived)
	suite.Require().Len(archived.Clients, 1)
	suite.True(archived.Clients[0].Deleted)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodPatch, url+"/recuperar", nil, otherToken).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodPatch, url+"/recuperar", nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodPatch, url+"/recuperar", nil, token).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, url, nil, token).Code)
}

func (suite *HandlerTestSuite) TestClients_DuplicateEmail() {
	_, token := suite.createTestUser("ana@example.com", "Ana", nil)
	body := map[string]string{"name": "Norte", "contactEmail": "obra@norte.es"}

	suite.Require().Equal(http.StatusCreated, suite.do(http.MethodPost, "/api/client", body, token).Code)

	w := suite.do(http.MethodPost, "/api/client", body, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "INVALID_INPUT")
}

func (suite *HandlerTestSuite) TestClients_DeleteInUse() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)

	w := suite.do(http.MethodDelete, fmt.Sprintf("/api/client/%d", albaran.ClientID), nil, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "CONFLICT")

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/project/%d", albaran.ProjectID), nil, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, fmt.Sprintf("/api/project/%d", albaran.ProjectID), nil, token).Code)
}

func (suite *HandlerTestSuite) TestProjects_UpdateArchiveRecover() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	client := suite.createTestClient(user)
	project := suite.createTestProject(user, client)
	url := fmt.Sprintf("/api/project/%d", project.ID)

	w := suite.do(http.MethodPut, url, map[string]string{"projectCode": "P-77", "description": "Fase 2"}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"projectCode":"P-77"`)

	suite.Equal(http.StatusOK, suite.do(http.MethodPatch, url+"/archivar", nil, token).Code)
	w = suite.do(http.MethodGet, "/api/project/archivados", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var archived struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}
	suite.decode(w, &archived)
	suite.Len(archived.Projects, 1)

	suite.Equal(http.StatusOK, suite.do(http.MethodPatch, url+"/recuperar", nil, token).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, url, nil, token).Code)
}

func (suite *HandlerTestSuite) TestProjects_DuplicateName() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	client := suite.createTestClient(user)
	project := suite.createTestProject(user, client)

	w := suite.do(http.MethodPost, "/api/project", map[string]interface{}{"clientId": client.ID, "name": project.Name}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "INVALID_INPUT")

	w = suite.do(http.MethodPost, "/api/project", map[string]interface{}{"clientId": client.ID, "name": "Otra obra"}, token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var other dto.ProjectDTO
	suite.decode(w, &other)

	w = suite.do(http.MethodPut, fmt.Sprintf("/api/project/%d", other.ID), map[string]string{"name": project.Name}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestHealth() {
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/health", nil, "").Code)
}
