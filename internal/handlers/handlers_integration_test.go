package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/app"
	"bistro/internal/database"
	"bistro/internal/models"
	"bistro/internal/repositories"
)

const csvHeader = "name,price,description,stock,category\n"

type testEnv struct {
	app        *fiber.App
	adminToken string
	userToken  string
	logs       repositories.ImportExportLogRepository
}

// setupApp builds the full application over an in-memory SQLite database with one admin and one
// regular user.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	logs := repositories.NewGORMImportExportLogRepository(db)
	a := app.New(app.Dependencies{
		Products:       repositories.NewGORMProductRepository(db),
		Users:          repositories.NewGORMUserRepository(db),
		Logs:           logs,
		JWTSecret:      "test_jwt_secret",
		JWTTTL:         time.Hour,
		MaxUploadBytes: 4096,
		Logger:         zerolog.New(io.Discard),
	})

	ctx := context.Background()
	require.NoError(t, a.Auth.Register(ctx, &models.User{Name: "Admin", Email: "admin@email.com", Role: models.RoleAdmin, Password: "admin123"}))
	require.NoError(t, a.Auth.Register(ctx, &models.User{Name: "Alina", Email: "alina@email.com", Role: models.RoleUser, Password: "alina123"}))

	env := &testEnv{app: a.Fiber, logs: logs}
	env.adminToken = env.login(t, "admin@email.com", "admin123")
	env.userToken = env.login(t, "alina@email.com", "alina123")
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := e.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out["token"].(string)
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

type importSummary struct {
	TotalRows            int              `json:"totalRows"`
	SuccessfullyImported int              `json:"successfullyImported"`
	Failed               int              `json:"failed"`
	ImportedProducts     []models.Product `json:"importedProducts"`
	Errors               []struct {
		Row   int               `json:"row"`
		Tag   string            `json:"tag"`
		Error string            `json:"error"`
		Data  map[string]string `json:"data"`
	} `json:"errors"`
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	user := map[string]interface{}{"name": "Octavian", "email": "octavian@email.com", "password": "secret1", "role": "manager", "department": "Sales", "age": 34, "phone": "0723456789"}
	resp, body := env.do(t, jsonRequest(http.MethodPost, "/auth/register", user), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotContains(t, string(body), "secret1")

	resp, _ = env.do(t, jsonRequest(http.MethodPost, "/auth/register", user), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, jsonRequest(http.MethodPost, "/auth/register", map[string]interface{}{
		"name": "Xy", "email": "not-an-email", "password": "secret1", "role": "manager",
	}), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Department")

	resp, _ = env.do(t, jsonRequest(http.MethodPost, "/auth/register", map[string]interface{}{
		"name": "Mallory", "email": "m@email.com", "password": "secret1", "role": "admin", "age": 30, "phone": "+37369123456",
	}), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "self-registration cannot grant admin")

	assert.NotEmpty(t, env.login(t, "octavian@email.com", "secret1"))

	resp, _ = env.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": "octavian@email.com", "password": "nope"}), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRegister_PhoneAndAge(t *testing.T) {
	env := setupApp(t)

	tests := []struct {
		name   string
		phone  string
		age    int
		status int
		field  string
	}{
		{"national number", "069123456", 25, http.StatusCreated, ""},
		{"international number", "+37379123456", 25, http.StatusCreated, ""},
		{"foreign prefix", "+40712345678", 25, http.StatusBadRequest, "Phone"},
		{"too short", "06912", 25, http.StatusBadRequest, "Phone"},
		{"letters", "0691234ab", 25, http.StatusBadRequest, "Phone"},
		{"missing phone", "", 25, http.StatusBadRequest, "Phone"},
		{"underage", "069123456", 17, http.StatusBadRequest, "Age"},
		{"missing age", "069123456", 0, http.StatusBadRequest, "Age"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]interface{}{
				"name":     "Client",
				"email":    fmt.Sprintf("client%d@email.com", i),
				"password": "secret1",
				"phone":    tt.phone,
				"age":      tt.age,
			}
			resp, body := env.do(t, jsonRequest(http.MethodPost, "/auth/register", payload), "")
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			if tt.field != "" {
				var out struct {
					Errors map[string]string `json:"errors"`
				}
				require.NoError(t, json.Unmarshal(body, &out))
				assert.Contains(t, out.Errors, tt.field)
			}
		})
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := setupApp(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/admin/products/export"},
		{http.MethodGet, "/admin/products/import/template"},
		{http.MethodGet, "/admin/report/products"},
		{http.MethodGet, "/admin/report/import-export"},
		{http.MethodGet, "/admin/report/users"},
		{http.MethodPost, "/products/create"},
		{http.MethodDelete, "/admin/delete/product/1"},
		{http.MethodPut, "/admin/edit/1"},
		{http.MethodGet, "/users/list"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp, _ := env.do(t, httptest.NewRequest(r.method, r.path, nil), "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, _ = env.do(t, httptest.NewRequest(r.method, r.path, nil), env.userToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestImport_ConcreteScenario(t *testing.T) {
	env := setupApp(t)

	content := []byte(csvHeader +
		"Pizza X,100,Desc,5,Pizza\n" +
		"Bad,-5,Desc,5,Burger\n" +
		"Burger Y,50,Desc2,10,Burger\n")
	resp, body := env.do(t, uploadRequest(t, "menu.csv", "text/csv", content), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var summary importSummary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessfullyImported)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Equal(t, "Validation Error", summary.Errors[0].Tag)
	assert.Equal(t, "Bad", summary.Errors[0].Data["name"])
	require.Len(t, summary.ImportedProducts, 2)
	assert.Equal(t, "Pizza X", summary.ImportedProducts[0].Name)
	assert.Equal(t, "Burger Y", summary.ImportedProducts[1].Name)
	assert.NotZero(t, summary.ImportedProducts[0].ID)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/products/list", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Len(t, products, 2)

	entries, err := env.logs.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "menu.csv", entries[0].Filename)
	assert.Equal(t, 1, entries[0].RecordsFailed)
}

func TestImport_FileRejections(t *testing.T) {
	env := setupApp(t)
	valid := []byte(csvHeader + "Cola,5,,1,Băutură\n")

	tests := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
	}{
		{"wrong type", "menu.csv", "application/json", valid},
		{"wrong extension", "menu.txt", "text/csv", valid},
		{"too large", "menu.csv", "text/csv", append([]byte(csvHeader), bytes.Repeat([]byte("Cola,5,,1,Băutură\n"), 300)...)},
		{"header only", "menu.csv", "text/csv", []byte(csvHeader)},
		{"malformed", "menu.csv", "text/csv", []byte(csvHeader + "\"Cola,5,,1,Băutură\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, uploadRequest(t, tt.filename, tt.contentType, tt.content), env.adminToken)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			var out map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &out))
			assert.NotEmpty(t, out["message"])
			assert.NotEmpty(t, out["error"])
		})
	}

	resp, _ := env.do(t, httptest.NewRequest(http.MethodPost, "/admin/products/import", nil), env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no file")

	entries, err := env.logs.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected files leave no audit entry")

	resp, body := env.do(t, uploadRequest(t, "menu.CSV", "application/vnd.ms-excel; charset=utf-8", valid), env.adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestExport_FiltersAndHeaders(t *testing.T) {
	env := setupApp(t)
	content := []byte(csvHeader +
		"Pizza Ieftină,99.99,d,1,Pizza\n" +
		"Pizza Quattro,100,\"Sos, \"\"special\"\"\",3,Pizza\n" +
		"Burger Mare,150,d,4,Burger\n")
	resp, body := env.do(t, uploadRequest(t, "seed.csv", "text/csv", content), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/admin/products/export?category=Pizza&minPrice=100", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	assert.Regexp(t, `^attachment; filename=products-export-\d{8}-\d{6}\.csv$`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t,
		"id,name,price,description,stock,category\n"+
			"2,Pizza Quattro,100.00,\"Sos, \"\"special\"\"\",3,Pizza\n",
		string(body))

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/admin/products/export?minPrice=200&maxPrice=100", nil), env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "minPrice: must not exceed maxPrice")

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/admin/report/import-export", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []models.ImportExportLog
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 2, "one import and one successful export")
	assert.Equal(t, models.LogTypeExport, entries[0].Type)
	assert.Equal(t, 1, entries[0].RecordsProcessed)
	assert.Zero(t, entries[0].RecordsFailed)
}

func TestImportTemplate(t *testing.T) {
	env := setupApp(t)
	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/admin/products/import/template", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "name,price,description,stock,category\n", string(body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "products-import-template.csv")
}

func TestProductCRUD(t *testing.T) {
	env := setupApp(t)

	resp, body := env.do(t, jsonRequest(http.MethodPost, "/admin/create/product", map[string]interface{}{
		"name": "Pizza Diavola", "price": 32.5, "description": "Salam picant", "stock": 4, "category": "Pizza",
	}), env.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	id := created.Product.ID
	require.NotZero(t, id)

	resp, body = env.do(t, jsonRequest(http.MethodPost, "/products/create", map[string]interface{}{
		"name": "Pizza", "price": 0, "category": "Pizza",
	}), env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &invalid))
	assert.Equal(t, "must be greater than 0", invalid.Errors["price"])
	assert.Equal(t, "is required for Pizza", invalid.Errors["description"])

	resp, body = env.do(t, jsonRequest(http.MethodPatch, fmt.Sprintf("/admin/update/%d", id), map[string]interface{}{"stock": 0}), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, jsonRequest(http.MethodPut, fmt.Sprintf("/products/edit/%d", id), map[string]interface{}{"price": "35.00", "name": "Pizza Diavola Mare"}), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/details/%d", id), nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Product
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Pizza Diavola Mare", got.Name)
	assert.Equal(t, "35.00", got.Price.StringFixed(2))
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, "Salam picant", got.Description)

	resp, body = env.do(t, jsonRequest(http.MethodPut, fmt.Sprintf("/admin/edit/%d", id), map[string]interface{}{"description": "Salam picant, ardei iute"}), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var edited struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(body, &edited))
	assert.Equal(t, "Salam picant, ardei iute", edited.Product.Description)
	assert.Equal(t, "Pizza Diavola Mare", edited.Product.Name)

	resp, _ = env.do(t, jsonRequest(http.MethodPatch, fmt.Sprintf("/admin/update/%d", id), map[string]interface{}{}), env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "empty patch")

	resp, _ = env.do(t, jsonRequest(http.MethodPatch, fmt.Sprintf("/admin/update/%d", id), map[string]interface{}{"category": "Paste"}), env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/delete/product/%d", id), nil), env.adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/details/%d", id), nil), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/delete/product/%d", id), nil), env.adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/products/details/abc", nil), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// identifiers are not reused after a delete
	resp, body = env.do(t, jsonRequest(http.MethodPost, "/admin/create/product", map[string]interface{}{
		"name": "Limonadă", "price": "9", "stock": 20, "category": "Băutură",
	}), env.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Greater(t, created.Product.ID, id)
}

func TestSearch(t *testing.T) {
	env := setupApp(t)
	content := []byte(csvHeader +
		"Pizza Margherita,25,Roșii,10,Pizza\n" +
		"Burger Clasic,20,d,0,Burger\n" +
		"Salată Caesar,18,d,5,Salată\n")
	resp, _ := env.do(t, uploadRequest(t, "seed.csv", "text/csv", content), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/products/search?name=SALAT%C4%82&maxPrice=20", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var products []models.Product
	require.NoError(t, json.Unmarshal(body, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Salată Caesar", products[0].Name)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/products/search?minStock=-1", nil), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportsAndUsers(t *testing.T) {
	env := setupApp(t)
	resp, _ := env.do(t, uploadRequest(t, "seed.csv", "text/csv", []byte(csvHeader+"Cola,5,,10,Băutură\nTiramisu,12,d,2,Desert\n")), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/admin/report/products", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		TotalProducts int             `json:"totalProducts"`
		TotalStock    int             `json:"totalStock"`
		StockValue    decimal.Decimal `json:"stockValue"`
		ByCategory    map[string]int  `json:"byCategory"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, 12, report.TotalStock)
	assert.True(t, decimal.NewFromInt(74).Equal(report.StockValue), report.StockValue.String())
	assert.Equal(t, 1, report.ByCategory["Desert"])

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/admin/report/products/pdf", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/admin/report/users", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/users/list", nil), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, 2)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodDelete, "/admin/delete/user/2", nil), env.adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, httptest.NewRequest(http.MethodDelete, "/admin/delete/user/2", nil), env.adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupApp(t)
	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "healthy")

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}
