package httpserver

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAdminCreateFoodItem_ConvertsPrice(t *testing.T) {
	deps := testDeps()
	admin := deps.AdminSvc.(*stubAdminService)
	router := newTestRouter(t, deps)

	rec := doRequest(router, http.MethodPost, "/api/admin/food-items", adminToken, `{"restaurantId":"1","name":"Veg Biryani","price":"9.99"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if admin.createdItem.PriceCents == nil || *admin.createdItem.PriceCents != 999 {
		t.Fatalf("price not converted: %+v", admin.createdItem)
	}
	if !strings.Contains(rec.Body.String(), `"price":9.99`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doRequest(router, http.MethodPost, "/api/admin/food-items", adminToken, `{"name":"x","price":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative price: expected 400, got %d", rec.Code)
	}
}

func TestAdminErrorMapping(t *testing.T) {
	router := newTestRouter(t, testDeps())

	if rec := doRequest(router, http.MethodPut, "/api/admin/food-items/ghost", adminToken, `{}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodPost, "/api/admin/users", adminToken, `{"name":"x","email":"taken@example.com"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodPut, "/api/admin/orders/o-1/status", adminToken, `{"status":"Lost"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodDelete, "/api/admin/users/u1", adminToken, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAdminUsers_HidePasswordHash(t *testing.T) {
	router := newTestRouter(t, testDeps())
	rec := doRequest(router, http.MethodGet, "/api/admin/users", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAdminStats(t *testing.T) {
	router := newTestRouter(t, testDeps())
	rec := doRequest(router, http.MethodGet, "/api/admin/stats", adminToken, "")
	want := `{"totalOrders":3,"totalUsers":2,"totalRestaurants":5,"totalRevenue":45.5}`
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("stats = %s, want %s", rec.Body.String(), want)
	}
}

func TestAdminOrderStatus(t *testing.T) {
	deps := testDeps()
	orders := deps.OrderSvc.(*stubOrderService)
	router := newTestRouter(t, deps)

	rec := doRequest(router, http.MethodPut, "/api/admin/orders/o-1/status", adminToken, `{"status":"Out for Delivery"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orders.updated["o-1"] != "Out for Delivery" {
		t.Fatalf("status not updated: %v", orders.updated)
	}
}

func TestUploadHandler(t *testing.T) {
	deps := testDeps()
	deps.PublicBaseURL = "https://cdn.example.com/"
	admin := deps.AdminSvc.(*stubAdminService)
	router := newTestRouter(t, deps)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "dish.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("png-data"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"url":"https://cdn.example.com/uploads/123-dish.png"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if admin.uploaded != "png-data" {
		t.Fatalf("file content not passed through: %q", admin.uploaded)
	}

	if rec := doRequest(router, http.MethodPost, "/api/upload", adminToken, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file: expected 400, got %d", rec.Code)
	}
}
