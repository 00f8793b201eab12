package products

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/enums"
	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
	"github.com/nukrstore/nukr-backend/pkg/logger"
)

type stubGateway struct {
	doc   *store.Document
	saves int
}

func newStubGateway() *stubGateway {
	return &stubGateway{doc: store.DefaultDocument(time.Now())}
}

func (s *stubGateway) Load(ctx context.Context) *store.Document {
	return cloneDocument(s.doc)
}

func (s *stubGateway) Save(ctx context.Context, doc *store.Document) error {
	s.doc = cloneDocument(doc)
	s.saves++
	return nil
}

func cloneDocument(doc *store.Document) *store.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var out store.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

func newTestService(t *testing.T, gateway *stubGateway) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(gateway, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddProduct(t *testing.T) {
	gateway := newStubGateway()
	svc := newTestService(t, gateway)

	dto, err := svc.Add(context.Background(), AddProductInput{
		VendorName: "Acme",
		Name:       "Mug",
		Category:   "Home Decor",
		Price:      decimal.NewFromInt(500),
		Image:      "http://img",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(dto.ID) != 8 {
		t.Fatalf("expected 8-char id, got %q", dto.ID)
	}
	if dto.Lifecycle != enums.ProductLifecycleActive {
		t.Fatalf("expected active lifecycle, got %s", dto.Lifecycle)
	}
	if len(gateway.doc.Products) != 1 {
		t.Fatalf("expected 1 persisted product, got %d", len(gateway.doc.Products))
	}
}

func TestAddProductRejectsNegativePrice(t *testing.T) {
	gateway := newStubGateway()
	svc := newTestService(t, gateway)

	_, err := svc.Add(context.Background(), AddProductInput{
		VendorName: "Acme",
		Name:       "Mug",
		Category:   "Home Decor",
		Price:      decimal.NewFromInt(-10),
	})
	if err == nil {
		t.Fatal("expected rejection")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gateway.doc.Products) != 0 {
		t.Fatalf("products collection must be unchanged, got %d", len(gateway.doc.Products))
	}
	if gateway.saves != 0 {
		t.Fatalf("rejection must not write, got %d saves", gateway.saves)
	}
}

func TestAddProductAllowsZeroPrice(t *testing.T) {
	svc := newTestService(t, newStubGateway())

	if _, err := svc.Add(context.Background(), AddProductInput{
		VendorName: "Acme",
		Name:       "Freebie",
		Category:   "Toys",
		Price:      decimal.Zero,
	}); err != nil {
		t.Fatalf("zero price should be allowed: %v", err)
	}
}

func TestAddProductUnknownVendorAllowed(t *testing.T) {
	// Vendor existence is not enforced at add time; this mirrors the
	// trusting contract and only logs.
	gateway := newStubGateway()
	svc := newTestService(t, gateway)

	if _, err := svc.Add(context.Background(), AddProductInput{
		VendorName: "Nobody",
		Name:       "Mug",
		Category:   "Home Decor",
		Price:      decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("unknown vendor should be allowed: %v", err)
	}
	if len(gateway.doc.Products) != 1 {
		t.Fatal("expected product persisted")
	}
}

func TestSoftDelete(t *testing.T) {
	gateway := newStubGateway()
	svc := newTestService(t, gateway)
	ctx := context.Background()

	dto, err := svc.Add(ctx, AddProductInput{
		VendorName: "Acme",
		Name:       "Mug",
		Category:   "Home Decor",
		Price:      decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.SoftDelete(ctx, dto.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := svc.Get(ctx, dto.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.Lifecycle != enums.ProductLifecycleInactive {
		t.Fatalf("expected inactive lifecycle, got %s", got.Lifecycle)
	}
	if len(gateway.doc.Products) != 1 {
		t.Fatal("soft delete must keep the product in the document")
	}
}

func TestSoftDeleteUnknownIDIsSilentNoOp(t *testing.T) {
	gateway := newStubGateway()
	svc := newTestService(t, gateway)

	if err := svc.SoftDelete(context.Background(), "missing1"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if gateway.saves != 0 {
		t.Fatalf("no-op must not write, got %d saves", gateway.saves)
	}
}

func TestSoftDeleteTwiceWritesOnce(t *testing.T) {
	gateway := newStubGateway()
	svc := newTestService(t, gateway)
	ctx := context.Background()

	dto, err := svc.Add(ctx, AddProductInput{
		VendorName: "Acme",
		Name:       "Mug",
		Category:   "Home Decor",
		Price:      decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	savesAfterAdd := gateway.saves

	if err := svc.SoftDelete(ctx, dto.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.SoftDelete(ctx, dto.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if gateway.saves != savesAfterAdd+1 {
		t.Fatalf("already-inactive delete must not write again, got %d saves", gateway.saves)
	}
}

func TestListFiltersActiveAndVendor(t *testing.T) {
	gateway := newStubGateway()
	svc := newTestService(t, gateway)
	ctx := context.Background()

	mug, err := svc.Add(ctx, AddProductInput{VendorName: "Acme", Name: "Mug", Category: "Home Decor", Price: decimal.NewFromInt(500)})
	if err != nil {
		t.Fatalf("add mug: %v", err)
	}
	if _, err := svc.Add(ctx, AddProductInput{VendorName: "Acme", Name: "Scarf", Category: "Crochet", Price: decimal.NewFromInt(900)}); err != nil {
		t.Fatalf("add scarf: %v", err)
	}
	if _, err := svc.Add(ctx, AddProductInput{VendorName: "Other", Name: "Ring", Category: "Jewelry", Price: decimal.NewFromInt(1500)}); err != nil {
		t.Fatalf("add ring: %v", err)
	}
	if err := svc.SoftDelete(ctx, mug.ID); err != nil {
		t.Fatalf("delete mug: %v", err)
	}

	active, err := svc.List(ctx, ListProductsInput{VendorName: "acme", ActiveOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Scarf" {
		t.Fatalf("expected only active Acme products, got %+v", active)
	}

	all, err := svc.List(ctx, ListProductsInput{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t, newStubGateway())

	_, err := svc.Get(context.Background(), "nope")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
