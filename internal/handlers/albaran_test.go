package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/yukikurage/albaranes-api/internal/dto"
	"github.com/yukikurage/albaranes-api/internal/models"
)

func (suite *HandlerTestSuite) TestCreateAlbaran_Success() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	client := suite.createTestClient(user)
	project := suite.createTestProject(user, client)

	w := suite.do(http.MethodPost, "/api/albaran", map[string]interface{}{
		"format":      "hours",
		"hours":       8,
		"description": "X",
		"workdate":    "2025-04-29",
		"clientId":    client.ID,
		"projectId":   project.ID,
	}, token)

	suite.Equal(http.StatusCreated, w.Code)
	var response map[string]interface{}
	suite.decode(w, &response)
	suite.Equal(true, response["pending"])
	suite.Nil(response["sign"])
	suite.Nil(response["pdf"])
	suite.Equal("hours", response["format"])
	suite.Equal("2025-04-29", response["workdate"])
	suite.Equal(float64(user.ID), response["userId"])
}

func (suite *HandlerTestSuite) TestCreateAlbaran_MissingDescription() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	client := suite.createTestClient(user)
	project := suite.createTestProject(user, client)

	w := suite.do(http.MethodPost, "/api/albaran", map[string]interface{}{
		"format":    "hours",
		"hours":     8,
		"workdate":  "2025-04-29",
		"clientId":  client.ID,
		"projectId": project.ID,
	}, token)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var response map[string]interface{}
	suite.decode(w, &response)
	suite.Equal("VALIDATION_FAILED", response["code"])
	details, ok := response["details"].(map[string]interface{})
	suite.Require().True(ok)
	suite.Equal("required", details["description"])
}

func (suite *HandlerTestSuite) TestCreateAlbaran_MaterialWithoutValue() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	client := suite.createTestClient(user)
	project := suite.createTestProject(user, client)

	w := suite.do(http.MethodPost, "/api/albaran", map[string]interface{}{
		"format":      "material",
		"description": "Entrega",
		"workdate":    "2025-04-29",
		"clientId":    client.ID,
		"projectId":   project.ID,
	}, token)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAlbaran_ForeignClient() {
	owner, _ := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	client := suite.createTestClient(owner)
	project := suite.createTestProject(owner, client)

	w := suite.do(http.MethodPost, "/api/albaran", map[string]interface{}{
		"format":      "hours",
		"hours":       2,
		"description": "X",
		"workdate":    "2025-04-29",
		"clientId":    client.ID,
		"projectId":   project.ID,
	}, otherToken)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAlbaran_Unauthenticated() {
	w := suite.do(http.MethodPost, "/api/albaran", map[string]interface{}{"format": "hours"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestListAlbaranes() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	other, _ := suite.createTestUser("luis@example.com", "Luis", nil)
	mine := suite.createTestAlbaran(user)
	suite.createTestAlbaran(other)

	w := suite.do(http.MethodGet, "/api/albaran", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var items []dto.AlbaranListItemDTO
	suite.decode(w, &items)
	suite.Require().Len(items, 1)
	suite.Equal(mine.ID, items[0].ID)
	suite.Equal("Construcciones Norte", items[0].Client.Name)
	suite.Equal("Reforma nave", items[0].Project.Name)
	suite.Equal("ana@example.com", items[0].User.Email)
}

func (suite *HandlerTestSuite) TestGetAlbaran_Shape() {
	company := "Acme"
	user, token := suite.createTestUser("ana@example.com", "Ana", &company)
	albaran := suite.createTestAlbaran(user)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/%d", albaran.ID), nil, token)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{
		"company": "Acme",
		"name": "Ana",
		"date": "2025-04-29",
		"client": {"name": "Construcciones Norte", "address": "Calle Mayor 1", "cif": "B12345678"},
		"project": "Reforma nave",
		"format": "hours",
		"concepts": [{"description": "Montaje de estructura", "value": "Ana – 8 horas"}],
		"photo": null
	}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestGetAlbaran_OtherUser() {
	owner, _ := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	albaran := suite.createTestAlbaran(owner)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/%d", albaran.ID), nil, otherToken)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestGetAlbaran_NotFound() {
	_, token := suite.createTestUser("ana@example.com", "Ana", nil)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/albaran/999", nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/albaran/abc", nil, token).Code)
}

func (suite *HandlerTestSuite) TestSignAlbaran_ThenDeleteFails() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)

	w := suite.upload(suite.router, fmt.Sprintf("/api/albaran/sign/%d", albaran.ID), signaturePNG(), token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result dto.SignResultDTO
	suite.decode(w, &result)
	suite.NotEmpty(result.Sign)
	suite.NotEmpty(result.PDF)

	stored := suite.reloadAlbaran(albaran.ID)
	suite.Require().NotNil(stored.Sign)
	suite.Require().NotNil(stored.PDF)
	suite.Equal(result.Sign, *stored.Sign)
	suite.Equal(result.PDF, *stored.PDF)
	suite.False(stored.Pending)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/albaran/%d", albaran.ID), nil, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "already signed")

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/albaran/%d?soft=true", albaran.ID), nil, token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/%d", albaran.ID), nil, token)
	suite.Equal(http.StatusOK, w.Code)
	var detail dto.AlbaranDetailDTO
	suite.decode(w, &detail)
	suite.Require().NotNil(detail.Photo)
	suite.Equal(result.Sign, *detail.Photo)
}

func (suite *HandlerTestSuite) TestSignAlbaran_Rejections() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	albaran := suite.createTestAlbaran(user)
	url := fmt.Sprintf("/api/albaran/sign/%d", albaran.ID)

	w := suite.upload(suite.router, url, nil, token)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "no file")

	w = suite.upload(suite.router, url, []byte("%PDF-1.4 not an image"), token)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.upload(suite.router, url, signaturePNG(), otherToken)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.upload(suite.router, "/api/albaran/sign/999", signaturePNG(), token)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.Zero(suite.store.Uploads())
	suite.Nil(suite.reloadAlbaran(albaran.ID).Sign)
}

func (suite *HandlerTestSuite) TestSignAlbaran_StorageFailure() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)
	router := suite.newRouter(failingStore{})

	w := suite.upload(router, fmt.Sprintf("/api/albaran/sign/%d", albaran.ID), signaturePNG(), token)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Body.String(), "STORAGE_FAILURE")
	stored := suite.reloadAlbaran(albaran.ID)
	suite.Nil(stored.Sign)
	suite.Nil(stored.PDF)
	suite.True(stored.Pending)
	suite.False(stored.Signing)

	// The failed attempt leaves nothing behind to fetch.
	suite.NoFileExists(filepath.Join(suite.artifactsDir, fmt.Sprintf("firma_%d.png", albaran.ID)))
	url := fmt.Sprintf("/albaranes/firma_%d.png", albaran.ID)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, url, nil, "").Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, url, nil, token).Code)

	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, fmt.Sprintf("/api/albaran/%d", albaran.ID), nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, url, nil, token).Code)
}

func (suite *HandlerTestSuite) TestGetAlbaranPDF_Unsigned() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/pdf/%d", albaran.ID), nil, token)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), fmt.Sprintf("albaran_%d.pdf", albaran.ID))
	suite.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	suite.Zero(suite.store.Uploads())
	suite.Nil(suite.reloadAlbaran(albaran.ID).PDF)
}

func (suite *HandlerTestSuite) TestGetAlbaranPDF_SignedServesStoredDocument() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)
	w := suite.upload(suite.router, fmt.Sprintf("/api/albaran/sign/%d", albaran.ID), signaturePNG(), token)
	suite.Require().Equal(http.StatusOK, w.Code)
	uploads := suite.store.Uploads()

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/pdf/%d", albaran.ID), nil, token)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(uploads, suite.store.Uploads())

	// The local copy is served from the artifacts directory.
	local := suite.do(http.MethodGet, fmt.Sprintf("/albaranes/albaran_%d.pdf", albaran.ID), nil, token)
	suite.Equal(http.StatusOK, local.Code)
	suite.Equal(local.Body.Bytes(), w.Body.Bytes())
}

func (suite *HandlerTestSuite) TestGetArtifact_OnlyCreator() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	albaran := suite.createTestAlbaran(user)
	signature := signaturePNG()
	w := suite.upload(suite.router, fmt.Sprintf("/api/albaran/sign/%d", albaran.ID), signature, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	url := fmt.Sprintf("/albaranes/firma_%d.png", albaran.ID)

	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, url, nil, "").Code)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, url, nil, otherToken).Code)

	w = suite.do(http.MethodGet, url, nil, token)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(signature, w.Body.Bytes())

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/albaranes/notes.txt", nil, token).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, fmt.Sprintf("/albaranes/firma_%d.jpg", albaran.ID), nil, token).Code)
}

func (suite *HandlerTestSuite) TestGetArtifact_UnsignedNoteHasNone() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)

	w := suite.do(http.MethodGet, fmt.Sprintf("/albaranes/albaran_%d.pdf", albaran.ID), nil, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetAlbaranPDF_OtherUser() {
	owner, _ := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	albaran := suite.createTestAlbaran(owner)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/pdf/%d", albaran.ID), nil, otherToken)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAlbaran_Unsigned() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	_, otherToken := suite.createTestUser("luis@example.com", "Luis", nil)
	albaran := suite.createTestAlbaran(user)
	url := fmt.Sprintf("/api/albaran/%d", albaran.ID)

	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodDelete, url, nil, otherToken).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, url, nil, token).Code)

	var count int64
	suite.db.Model(&models.Albaran{}).Where("id = ?", albaran.ID).Count(&count)
	suite.Zero(count)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodDelete, url, nil, token).Code)
}

func (suite *HandlerTestSuite) TestDeleteAlbaran_Soft() {
	user, token := suite.createTestUser("ana@example.com", "Ana", nil)
	albaran := suite.createTestAlbaran(user)

	w := suite.do(http.MethodDelete, fmt.Sprintf("/api/albaran/%d?soft=true", albaran.ID), nil, token)
	suite.Equal(http.StatusOK, w.Code)

	suite.True(suite.reloadAlbaran(albaran.ID).Deleted)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, fmt.Sprintf("/api/albaran/%d", albaran.ID), nil, token).Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/albaran/%d?soft=maybe", albaran.ID), nil, token)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}
