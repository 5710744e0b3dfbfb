package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/shopline/shop-api/auth"
	orderControllers "github.com/shopline/shop-api/controllers/order"
	"github.com/shopline/shop-api/middleware"
	"github.com/shopline/shop-api/store/gormstore"
)

type testApp struct {
	router *gin.Engine
	store  *gormstore.Store
	hub    *orderControllers.Hub
}

func newTestApp(t *testing.T, opts ...func(*Deps)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := gormstore.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	log := logrus.New()
	log.SetOutput(io.Discard)

	d := Deps{
		Store:  s,
		Tokens: auth.NewTokenIssuer("test-secret", time.Hour),
		Hub:    orderControllers.NewHub(log),
	}
	for _, o := range opts {
		o(&d)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	SetupRoutes(r, d)
	return &testApp{router: r, store: s, hub: d.Hub}
}

func (a *testApp) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (a *testApp) createProduct(t *testing.T, body string) uint {
	t.Helper()
	w := a.do(http.MethodPost, "/products", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Product struct {
			ID uint `json:"productID"`
		} `json:"product"`
	}
	decode(t, w, &out)
	return out.Product.ID
}

func TestRegisterLoginAndProtectedRoute(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/register", `{"fullName":"Ada","email":"ada@x.io","password":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(http.MethodPost, "/login", `{"email":"ada@x.io","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token  string `json:"token"`
		UserID uint   `json:"userId"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	w = app.do(http.MethodGet, "/protected-route", "", "Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var protected struct {
		Message string `json:"message"`
		User    struct {
			UserID uint   `json:"userId"`
			Email  string `json:"email"`
			Exp    int64  `json:"exp"`
		} `json:"user"`
	}
	decode(t, w, &protected)
	assert.Equal(t, "Protected route accessed", protected.Message)
	assert.Equal(t, login.UserID, protected.User.UserID)
	assert.Equal(t, "ada@x.io", protected.User.Email)
	assert.NotZero(t, protected.User.Exp)

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/protected-route", "").Code)

	w = app.do(http.MethodGet, "/user/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(http.MethodGet, "/user/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())

	w = app.do(http.MethodGet, "/role/1", "")
	assert.JSONEq(t, `{"role":"user"}`, w.Body.String())
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/role/abc", "").Code)
}

func TestRegisterAndLoginWithLongPassword(t *testing.T) {
	app := newTestApp(t)
	password := strings.Repeat("a", 80)

	w := app.do(http.MethodPost, "/register", `{"email":"long@x.io","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(http.MethodPost, "/login", `{"email":"long@x.io","password":"`+password+`"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodPost, "/login", `{"email":"long@x.io","password":"`+strings.Repeat("a", 79)+`b"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	app := newTestApp(t, func(d *Deps) { d.AuthLimiter = middleware.NewLocalLimiter(2) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/login", `{"email":"x@x.io","password":"pw"}`).Code)
	}
	w := app.do(http.MethodPost, "/login", `{"email":"x@x.io","password":"pw"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
}

func TestProductCatalog(t *testing.T) {
	app := newTestApp(t)

	first := app.createProduct(t, `{"name":"Corolla","title":{"t1":"Toyota","t2":"sedan"},"price":"15000","year":2018}`)
	second := app.createProduct(t, `{"name":"Accord","title":{"t3":"honda sedan"},"price":12000}`)
	assert.Equal(t, uint(1), first)
	assert.Equal(t, uint(2), second)

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/products", `{"price":"1"}`).Code)

	var list []struct {
		ID    uint   `json:"productID"`
		Name  string `json:"name"`
		Price string `json:"price"`
		Year  string `json:"year"`
	}
	w := app.do(http.MethodGet, "/products?search=SEDAN&sort=name", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Accord", list[0].Name)
	assert.Equal(t, "12000", list[0].Price)
	assert.Equal(t, "2018", list[1].Year)

	w = app.do(http.MethodGet, "/products?search=toyota", "")
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/products?sort=$where", "").Code)

	w = app.do(http.MethodPut, "/products/2", `{"price":"11500","title":{"t1":"honda"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":"11500"`)
	assert.Contains(t, w.Body.String(), `"t3":"honda sedan"`)

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPut, "/products/99", `{"price":"1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPut, "/products/zero", `{}`).Code)

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/products/1", "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/products/77", "").Code)
}

func TestCartFlow(t *testing.T) {
	app := newTestApp(t)
	pid := app.createProduct(t, `{"name":"Mug","price":"10"}`)

	w := app.do(http.MethodPost, "/add-to-cart", `{"userId":1,"productId":1,"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.do(http.MethodPost, "/add-to-cart", `{"userId":1,"productId":1,"quantity":3}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var added struct {
		CartItem struct {
			Quantity int `json:"quantity"`
		} `json:"cartItem"`
	}
	decode(t, w, &added)
	assert.Equal(t, 5, added.CartItem.Quantity)

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/add-to-cart", `{"userId":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/add-to-cart", `{"userId":1,"productId":404}`).Code)

	var lines []struct {
		CartItem struct {
			ProductID uint `json:"productID"`
			Quantity  int  `json:"quantity"`
		} `json:"cartItem"`
		ProductDetail struct {
			Name string `json:"name"`
		} `json:"productDetail"`
	}
	w = app.do(http.MethodGet, "/cart/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &lines)
	require.Len(t, lines, 1)
	assert.Equal(t, pid, lines[0].CartItem.ProductID)
	assert.Equal(t, "Mug", lines[0].ProductDetail.Name)

	assert.Equal(t, http.StatusOK, app.do(http.MethodPut, "/cart/1/1", `{"quantity":7}`).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPut, "/cart/2/1", `{"quantity":7}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPut, "/cart/1/1", `{"quantity":0}`).Code)

	w = app.do(http.MethodGet, "/cart/2", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusOK, app.do(http.MethodDelete, "/cart/1/1", "").Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodDelete, "/cart/1/1", "").Code)

	app.do(http.MethodPost, "/add-to-cart", `{"userId":1,"productId":1}`)
	w = app.do(http.MethodDelete, "/cart/1", "")
	assert.JSONEq(t, `{"message":"Cart cleared successfully!","removed":1}`, w.Body.String())
}

func TestFavorites(t *testing.T) {
	app := newTestApp(t)
	app.createProduct(t, `{"name":"Lamp"}`)

	w := app.do(http.MethodPost, "/add/favorites", `{"userId":3,"productId":1}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = app.do(http.MethodPost, "/add/favorites", `{"userId":3,"productId":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Product already in favorites"}`, w.Body.String())

	var favs []struct {
		ProductID uint `json:"productID"`
		Product   struct {
			Name string `json:"name"`
		} `json:"product"`
	}
	decode(t, app.do(http.MethodGet, "/favorites/3", ""), &favs)
	require.Len(t, favs, 1)
	assert.Equal(t, "Lamp", favs[0].Product.Name)

	assert.Equal(t, http.StatusOK, app.do(http.MethodDelete, "/favorites/3/1", "").Code)
	decode(t, app.do(http.MethodGet, "/favorites/3", ""), &favs)
	assert.Empty(t, favs)
}

func TestOrdersAndCascadeDelete(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/register", `{"email":"u@x.io","password":"pw"}`).Code)
	app.createProduct(t, `{"name":"Desk","price":"10"}`)

	w := app.do(http.MethodPost, "/orders/1", `{"orderItems":[{"product":1,"quantity":2,"price":10}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Message string `json:"message"`
		Orders  []struct {
			ID         uint    `json:"orderID"`
			TotalPrice float64 `json:"totalPrice"`
			Status     string  `json:"status"`
		} `json:"orders"`
	}
	decode(t, w, &placed)
	require.Len(t, placed.Orders, 1)
	assert.Equal(t, "Order placed successfully!", placed.Message)
	assert.Equal(t, 20.0, placed.Orders[0].TotalPrice)
	assert.Equal(t, "Pending", placed.Orders[0].Status)

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/orders/1", `{"orderItems":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/orders/1", `{"orderItems":[{"product":1,"quantity":0,"price":1}]}`).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/orders/1", `{"orderItems":[{"product":9,"quantity":1,"price":1}]}`).Code)

	var mine []struct {
		ProductID uint `json:"productID"`
		Product   struct {
			Name string `json:"name"`
		} `json:"product"`
	}
	decode(t, app.do(http.MethodGet, "/orders/1", ""), &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Desk", mine[0].Product.Name)

	var all []struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, app.do(http.MethodGet, "/orderedItems", ""), &all)
	require.Len(t, all, 1)
	assert.Equal(t, "u@x.io", all[0].User.Email)

	w = app.do(http.MethodPut, "/orders/1/status", `{"status":"Approved","adminComments":"ok"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Approved"`)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPut, "/orders/1/status", `{"status":"Shipped"}`).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPut, "/orders/9/status", `{"status":"Rejected"}`).Code)

	app.do(http.MethodPost, "/add-to-cart", `{"userId":1,"productId":1,"quantity":1}`)
	app.do(http.MethodPost, "/add/favorites", `{"userId":1,"productId":1}`)

	w = app.do(http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product deleted successfully")

	assert.JSONEq(t, `[]`, app.do(http.MethodGet, "/cart/1", "").Body.String())
	assert.JSONEq(t, `[]`, app.do(http.MethodGet, "/favorites/1", "").Body.String())
	assert.JSONEq(t, `[]`, app.do(http.MethodGet, "/orders/1", "").Body.String())
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/products/1", "").Code)
}

func TestAdminKeyGuardsWrites(t *testing.T) {
	app := newTestApp(t, func(d *Deps) { d.AdminAPIKey = "k" })

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/products", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/orderedItems", "").Code)
	assert.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/products", `{"name":"x"}`, "X-API-KEY", "k").Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/products", "").Code)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	require.NoError(t, app.store.Close(context.Background()))
	assert.Equal(t, http.StatusServiceUnavailable, app.do(http.MethodGet, "/healthz", "").Code)
}

func TestOrderFeedBroadcastsPlacedOrders(t *testing.T) {
	app := newTestApp(t)
	app.createProduct(t, `{"name":"Chair"}`)

	srv := httptest.NewServer(app.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/orders", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return app.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	w := app.do(http.MethodPost, "/orders/5", `{"orderItems":[{"product":1,"quantity":3,"price":"2.5"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev struct {
		Event string `json:"event"`
		Order struct {
			UserID     uint    `json:"userID"`
			TotalPrice float64 `json:"totalPrice"`
		} `json:"order"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, orderControllers.EventOrderPlaced, ev.Event)
	assert.Equal(t, uint(5), ev.Order.UserID)
	assert.Equal(t, 7.5, ev.Order.TotalPrice)
}

func TestExcelRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app.createProduct(t, `{"name":"Existing","price":"1"}`)

	book := xlsx.NewFile()
	sheet, err := book.AddSheet("Products")
	require.NoError(t, err)
	for _, cells := range [][]string{
		{"ProductID", "Name", "T1", "T2", "T3", "T4", "T5", "Price", "Image", "Model", "Year", "Type"},
		{"1", "Renamed", "alpha", "", "", "", "", "5", "", "", "", ""},
		{"", "Brand new", "beta", "", "", "", "", "7", "", "", "2020", "car"},
		{"", "", "no name", "", "", "", "", "", "", "", "", ""},
	} {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import-excel", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Import completed","created_count":1,"updated_count":1,"skipped_count":1}`, w.Body.String())

	w = app.do(http.MethodGet, "/admin/products/export-excel", "")
	require.Equal(t, http.StatusOK, w.Code)
	exported, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	rows := exported.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "ProductID", rows[0].Cells[0].String())
	assert.Equal(t, "Renamed", rows[1].Cells[1].String())
	assert.Equal(t, "Brand new", rows[2].Cells[1].String())
	assert.Equal(t, "2020", rows[2].Cells[10].String())
}
