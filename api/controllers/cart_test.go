package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codewithtechdev/storefront-backend/api/middleware"
	cartsvc "github.com/codewithtechdev/storefront-backend/internal/cart"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.Cart
	err  error

	addedProduct uuid.UUID
	setProduct   uuid.UUID
	setQuantity  int
	cleared      bool
}

func (s *stubCartService) Get(ctx context.Context, sessionID uuid.UUID) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Add(ctx context.Context, sessionID, productID uuid.UUID) (*cartsvc.Cart, error) {
	s.addedProduct = productID
	return s.cart, s.err
}

func (s *stubCartService) Remove(ctx context.Context, sessionID, productID uuid.UUID) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity int) (*cartsvc.Cart, error) {
	s.setProduct = productID
	s.setQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, sessionID uuid.UUID) error {
	s.cleared = true
	return s.err
}

func sessionRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithSessionID(req.Context(), uuid.New())
	return req.WithContext(ctx)
}

func testCart(sessionID uuid.UUID) *cartsvc.Cart {
	return &cartsvc.Cart{
		SessionID: sessionID,
		Items: []cartsvc.Item{
			{ProductID: uuid.New(), Name: "React Dashboard Kit", UnitPriceCents: 2999, Quantity: 2},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

func TestCartFetch(t *testing.T) {
	sessionID := uuid.New()
	svc := &stubCartService{cart: testCart(sessionID)}
	handler := CartFetch(svc, nil)

	req := sessionRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if envelope.Data.Count != 2 {
		t.Fatalf("expected count 2 got %d", envelope.Data.Count)
	}
	if envelope.Data.Subtotal != "$59.98" {
		t.Fatalf("expected $59.98 got %s", envelope.Data.Subtotal)
	}
}

func TestCartFetchWithoutSession(t *testing.T) {
	svc := &stubCartService{cart: testCart(uuid.New())}
	handler := CartFetch(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCartAddItem(t *testing.T) {
	sessionID := uuid.New()
	svc := &stubCartService{cart: testCart(sessionID)}
	handler := CartAddItem(svc, nil)

	productID := uuid.New()
	body, _ := json.Marshal(map[string]string{"product_id": productID.String()})
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.addedProduct != productID {
		t.Fatalf("expected service to receive %s got %s", productID, svc.addedProduct)
	}
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	svc := &stubCartService{cart: testCart(uuid.New())}
	handler := CartAddItem(svc, nil)

	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", []byte(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAddItem(svc, nil)

	body, _ := json.Marshal(map[string]string{"product_id": uuid.NewString()})
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartSetQuantityZeroReachesService(t *testing.T) {
	svc := &stubCartService{cart: testCart(uuid.New()), setQuantity: -99}
	handler := CartSetQuantity(svc, nil)

	productID := uuid.New()
	req := sessionRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), []byte(`{"quantity":0}`))
	req = withURLParam(req, "productId", productID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.setProduct != productID {
		t.Fatalf("expected service to receive %s got %s", productID, svc.setProduct)
	}
	if svc.setQuantity != 0 {
		t.Fatalf("expected quantity 0 to reach the service, got %d", svc.setQuantity)
	}
}

func TestCartSetQuantityRejectsMissingQuantity(t *testing.T) {
	svc := &stubCartService{cart: testCart(uuid.New())}
	handler := CartSetQuantity(svc, nil)

	productID := uuid.New()
	req := sessionRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), []byte(`{}`))
	req = withURLParam(req, "productId", productID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{cart: testCart(uuid.New())}
	handler := CartClear(svc, nil)

	req := sessionRequest(http.MethodDelete, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.cleared {
		t.Fatal("expected clear to reach the service")
	}
}
