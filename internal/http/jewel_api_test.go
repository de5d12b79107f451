package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"edeng/internal/domain"
	"edeng/internal/http/handlers"
	"edeng/internal/repos"
	"edeng/internal/services"
)

// memJewels is an in-memory stand-in for the mongo-backed repo.
type memJewels struct {
	docs map[string]domain.Jewel
}

func newMemJewels() *memJewels { return &memJewels{docs: map[string]domain.Jewel{}} }

func (m *memJewels) Query(_ context.Context, f domain.JewelFilter) ([]domain.Jewel, error) {
	out := []domain.Jewel{}
	for _, j := range m.docs {
		if f.MaxPrice > 0 && j.Price > f.MaxPrice {
			continue
		}
		if f.Txt != "" && !strings.Contains(strings.ToLower(j.Vendor), strings.ToLower(f.Txt)) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (m *memJewels) Get(_ context.Context, id string) (domain.Jewel, error) {
	j, ok := m.docs[id]
	if !ok {
		return domain.Jewel{}, repos.ErrNoDocument
	}
	return j, nil
}

func (m *memJewels) Insert(_ context.Context, j domain.Jewel) (domain.Jewel, error) {
	j.ID = primitive.NewObjectID()
	m.docs[j.ID.Hex()] = j
	return j, nil
}

func (m *memJewels) Update(_ context.Context, j domain.Jewel) (domain.Jewel, error) {
	if _, ok := m.docs[j.ID.Hex()]; !ok {
		return domain.Jewel{}, repos.ErrNoDocument
	}
	m.docs[j.ID.Hex()] = j
	return j, nil
}

func (m *memJewels) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return repos.ErrNoDocument
	}
	delete(m.docs, id)
	return nil
}

func (m *memJewels) DecreaseQuantity(_ context.Context, id string, amount int) (domain.Jewel, error) {
	j, ok := m.docs[id]
	if !ok {
		return domain.Jewel{}, repos.ErrNoDocument
	}
	if j.Quantity -= amount; j.Quantity < 0 {
		j.Quantity = 0
	}
	j.IsSoldOut = j.Quantity == 0
	m.docs[id] = j
	return j, nil
}

func jewelApp(store *memJewels, auth *services.AuthService) *fiber.App {
	h := &handlers.JewelHandler{Catalog: services.NewCatalogService(store)}
	app := fiber.New()
	app.Use(handlers.SessionIdentity(auth))
	app.Get("/api/jewel", h.List)
	app.Post("/api/jewel", handlers.RequireUser(), h.Create)
	app.Post("/api/jewel/decrease", h.Decrease)
	app.Get("/api/jewel/:jewelId", h.Get)
	app.Delete("/api/jewel/:jewelId", handlers.RequireUser(), h.Delete)
	return app
}

func testAuth() *services.AuthService {
	return services.NewAuthService(nil, "eden", "s3cret-admin", "test-signing-secret", 60)
}

func adminCookie(t *testing.T, auth *services.AuthService) *http.Cookie {
	t.Helper()
	tok, err := auth.GetLoginToken(&domain.Identity{ID: "admin", Fullname: "Admin User", IsAdmin: true})
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{Name: handlers.LoginCookie, Value: tok}
}

func TestCreateRequiresSession(t *testing.T) {
	auth := testAuth()
	app := jewelApp(newMemJewels(), auth)

	body := `{"vendor":"Gold Ring","price":120,"quantity":3}`

	req := httptest.NewRequest("POST", "/api/jewel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 without cookie, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("POST", "/api/jewel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(adminCookie(t, auth))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 with session, got %d", resp.StatusCode)
	}

	var j domain.Jewel
	if err := json.NewDecoder(resp.Body).Decode(&j); err != nil {
		t.Fatal(err)
	}
	if j.ID.IsZero() || j.Owner != "admin" {
		t.Fatalf("insert must assign id and stamp owner: %+v", j)
	}
}

func TestGetAndDeleteNotFound(t *testing.T) {
	auth := testAuth()
	app := jewelApp(newMemJewels(), auth)
	missing := primitive.NewObjectID().Hex()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/jewel/"+missing, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("DELETE", "/api/jewel/"+missing, nil)
	req.AddCookie(adminCookie(t, auth))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 on delete, got %d", resp.StatusCode)
	}

	// malformed id is a validation failure, not a lookup
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/jewel/not-hex", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for bad id, got %d", resp.StatusCode)
	}
}

func TestDecreaseEndpointClamps(t *testing.T) {
	store := newMemJewels()
	j, _ := store.Insert(context.Background(), domain.Jewel{Vendor: "Necklace", Quantity: 1})
	app := jewelApp(store, testAuth())

	body := `{"id":"` + j.ID.Hex() + `","amount":4}`
	req := httptest.NewRequest("POST", "/api/jewel/decrease", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out domain.Jewel
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Quantity != 0 || !out.IsSoldOut {
		t.Fatalf("want clamped sold-out jewel, got %+v", out)
	}
}

func TestListMaxPriceFilter(t *testing.T) {
	store := newMemJewels()
	store.Insert(context.Background(), domain.Jewel{Vendor: "Cheap", Price: 50})
	store.Insert(context.Background(), domain.Jewel{Vendor: "Fancy", Price: 500})
	app := jewelApp(store, testAuth())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/jewel?maxPrice=100", nil))
	if err != nil {
		t.Fatal(err)
	}
	var out []domain.Jewel
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Vendor != "Cheap" {
		t.Fatalf("maxPrice filter leaked dearer items: %+v", out)
	}
}
