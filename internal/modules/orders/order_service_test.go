package orders

import (
	"context"
	"errors"
	"testing"

	"growshare/internal/models"
	"growshare/internal/notify"
	"growshare/pkg/email"
)

// ---- fakes ----

type fakeRepo struct {
	orders map[string]*models.Order

	createdPayments []*models.Payment
	// releasedLand accumulates the sqft returned to each listing by
	// reject/cancel, keyed by listing ID.
	releasedLand map[string]float64
	// casAffected overrides the result of the conditional update when set
	// to a non-nil value, to simulate a lost race.
	casAffected *int64
}

func newFakeRepo(orders ...*models.Order) *fakeRepo {
	r := &fakeRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeRepo) CreateWithAdvancePayment(_ context.Context, order *models.Order, payment *models.Payment) (*models.Order, error) {
	order.ID = "order-1"
	order.Status = models.StatusPending
	r.orders[order.ID] = order
	r.createdPayments = append(r.createdPayments, payment)
	return order, nil
}

func (r *fakeRepo) FindByID(_ context.Context, orderID string) (*models.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) ListByUserID(_ context.Context, userID string, _, _ int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListByFarmerID(_ context.Context, farmerID string, status models.OrderStatus, _, _ int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.FarmerID == farmerID && (status == "" || o.Status == status) {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListAll(_ context.Context, _, _ int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatusIfCurrent(_ context.Context, orderID string, expected, next models.OrderStatus) (int64, error) {
	if r.casAffected != nil {
		return *r.casAffected, nil
	}
	o, ok := r.orders[orderID]
	if !ok || o.Status != expected {
		return 0, nil
	}
	o.Status = next
	return 1, nil
}

func (r *fakeRepo) AdvanceWithFinalPayment(ctx context.Context, orderID string, expected models.OrderStatus, payment *models.Payment) (int64, error) {
	affected, err := r.UpdateStatusIfCurrent(ctx, orderID, expected, models.StatusReadyToHarvest)
	if err != nil || affected == 0 {
		return affected, err
	}
	r.createdPayments = append(r.createdPayments, payment)
	return affected, nil
}

func (r *fakeRepo) CloseAndReleaseLand(ctx context.Context, order *models.Order, next models.OrderStatus) (int64, error) {
	affected, err := r.UpdateStatusIfCurrent(ctx, order.ID, order.Status, next)
	if err != nil || affected == 0 {
		return affected, err
	}
	if r.releasedLand == nil {
		r.releasedLand = make(map[string]float64)
	}
	r.releasedLand[order.LandListingID] += order.LandSizeSqft
	return affected, nil
}

type fakeListings struct {
	listing *models.LandListing
}

func (f *fakeListings) FindByID(_ context.Context, id string) (*models.LandListing, error) {
	if f.listing == nil || f.listing.ID != id {
		return nil, models.ErrNotFound
	}
	return f.listing, nil
}

type fakeFarmers map[string]string // userID -> profileID

func (f fakeFarmers) FindProfileIDByUserID(_ context.Context, userID string) (string, error) {
	id, ok := f[userID]
	if !ok {
		return "", models.ErrNotFound
	}
	return id, nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (n *fakeNotifier) Notify(evt notify.Event) { n.events = append(n.events, evt) }

func (n *fakeNotifier) lastType(t *testing.T) string {
	t.Helper()
	if len(n.events) == 0 {
		t.Fatal("expected a notification to be enqueued")
	}
	return n.events[len(n.events)-1].Type
}

// ---- helpers ----

func testListing() *models.LandListing {
	return &models.LandListing{
		ID:                  "listing-1",
		FarmerID:            "farmer-1",
		AvailableSizeSqft:   500,
		PricePerSqft:        2.5,
		SupportedVegetables: []string{"tomato", "spinach"},
		IsActive:            true,
	}
}

func placeReq() models.PlaceOrderRequest {
	return models.PlaceOrderRequest{
		LandListingID:   "listing-1",
		VegetableName:   "tomato",
		LandSizeSqft:    100,
		DeliveryAddress: "12 Main Street",
		IdempotencyKey:  "5a1d8e4c-87a1-4f10-b8dc-0a4c2f6d9b11",
	}
}

func orderAt(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:            "order-1",
		UserID:        "user-1",
		FarmerID:      "farmer-1",
		LandListingID: "listing-1",
		VegetableName: "tomato",
		LandSizeSqft:  100,
		TotalPrice:    250,
		AdvanceAmount: 75,
		FinalAmount:   175,
		Status:        status,
	}
}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	farmers := fakeFarmers{"farmer-user-1": "farmer-1"}
	svc := NewService(repo, &fakeListings{listing: testListing()}, farmers, notifier)
	return svc, notifier
}

// ---- tests ----

func TestPlaceOrderComputesSplitAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if order.TotalPrice != 250 {
		t.Errorf("TotalPrice = %v, want 250", order.TotalPrice)
	}
	if order.AdvanceAmount != 75 || order.FinalAmount != 175 {
		t.Errorf("split = %v/%v, want 75/175", order.AdvanceAmount, order.FinalAmount)
	}
	if order.AdvanceAmount+order.FinalAmount != order.TotalPrice {
		t.Errorf("split does not sum to total")
	}
	if order.Status != models.StatusPending {
		t.Errorf("new order status = %s, want pending", order.Status)
	}

	if len(repo.createdPayments) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(repo.createdPayments))
	}
	p := repo.createdPayments[0]
	if p.PaymentType != models.PaymentTypeAdvance || p.Amount != 75 || p.Status != models.PaymentStatusPending {
		t.Errorf("advance payment = %+v", p)
	}

	if notifier.lastType(t) != email.TypeOrderPlaced {
		t.Errorf("notification type = %s, want %s", notifier.lastType(t), email.TypeOrderPlaced)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.PlaceOrderRequest, *models.LandListing)
		want   error
	}{
		{
			name:   "inactive listing",
			mutate: func(_ *models.PlaceOrderRequest, l *models.LandListing) { l.IsActive = false },
			want:   models.ErrListingUnavailable,
		},
		{
			name:   "size exceeds availability",
			mutate: func(r *models.PlaceOrderRequest, _ *models.LandListing) { r.LandSizeSqft = 600 },
			want:   models.ErrValidation,
		},
		{
			name:   "unsupported vegetable",
			mutate: func(r *models.PlaceOrderRequest, _ *models.LandListing) { r.VegetableName = "durian" },
			want:   models.ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			listing := testListing()
			notifier := &fakeNotifier{}
			svc := NewService(repo, &fakeListings{listing: listing}, fakeFarmers{}, notifier)

			req := placeReq()
			tc.mutate(&req, listing)

			_, err := svc.PlaceOrder(context.Background(), "user-1", req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("PlaceOrder error = %v, want %v", err, tc.want)
			}
			if len(repo.orders) != 0 {
				t.Error("rejected order must not be persisted")
			}
			if len(notifier.events) != 0 {
				t.Error("rejected order must not notify")
			}
		})
	}
}

func TestAcceptOrder(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, notifier := newTestService(repo)

	order, err := svc.AcceptOrder(context.Background(), "farmer-user-1", "order-1")
	if err != nil {
		t.Fatalf("AcceptOrder: %v", err)
	}
	if order.Status != models.StatusAccepted {
		t.Errorf("status = %s, want accepted", order.Status)
	}
	if notifier.lastType(t) != email.TypeOrderAccepted {
		t.Errorf("notification type = %s", notifier.lastType(t))
	}
}

func TestAcceptOrderNotPending(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusAccepted))
	svc, _ := newTestService(repo)

	_, err := svc.AcceptOrder(context.Background(), "farmer-user-1", "order-1")
	if !errors.Is(err, models.ErrIllegalTransition) {
		t.Fatalf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestAcceptOrderLostRace(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	var zero int64
	repo.casAffected = &zero
	svc, notifier := newTestService(repo)

	_, err := svc.AcceptOrder(context.Background(), "farmer-user-1", "order-1")
	if !errors.Is(err, models.ErrConcurrentModification) {
		t.Fatalf("error = %v, want ErrConcurrentModification", err)
	}
	if len(notifier.events) != 0 {
		t.Error("lost race must not notify")
	}
}

func TestAcceptOrderWrongFarmer(t *testing.T) {
	o := orderAt(models.StatusPending)
	o.FarmerID = "farmer-2"
	repo := newFakeRepo(o)
	svc, _ := newTestService(repo)

	_, err := svc.AcceptOrder(context.Background(), "farmer-user-1", "order-1")
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestRejectOrderCarriesReason(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, notifier := newTestService(repo)

	order, err := svc.RejectOrder(context.Background(), "farmer-user-1", "order-1", "land is flooded")
	if err != nil {
		t.Fatalf("RejectOrder: %v", err)
	}
	if order.Status != models.StatusRejected {
		t.Errorf("status = %s, want rejected", order.Status)
	}
	evt := notifier.events[len(notifier.events)-1]
	if evt.Type != email.TypeOrderRejected || evt.Reason != "land is flooded" {
		t.Errorf("event = %+v", evt)
	}
}

func TestRejectOrderReleasesLand(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, _ := newTestService(repo)

	if _, err := svc.RejectOrder(context.Background(), "farmer-user-1", "order-1", "no capacity"); err != nil {
		t.Fatalf("RejectOrder: %v", err)
	}
	if got := repo.releasedLand["listing-1"]; got != 100 {
		t.Errorf("released land = %v sqft, want 100", got)
	}
}

func TestAdvanceStatusFullRun(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusAccepted))
	svc, notifier := newTestService(repo)

	want := []models.OrderStatus{
		models.StatusPlanted,
		models.StatusGrowing,
		models.StatusReadyToHarvest,
		models.StatusHarvested,
		models.StatusDelivered,
	}
	for _, expected := range want {
		order, err := svc.AdvanceStatus(context.Background(), "farmer-user-1", "order-1")
		if err != nil {
			t.Fatalf("AdvanceStatus to %s: %v", expected, err)
		}
		if order.Status != expected {
			t.Fatalf("status = %s, want %s", order.Status, expected)
		}
	}

	// The final payment was created exactly once, at ready_to_harvest.
	if len(repo.createdPayments) != 1 {
		t.Fatalf("expected 1 final payment, got %d", len(repo.createdPayments))
	}
	p := repo.createdPayments[0]
	if p.PaymentType != models.PaymentTypeFinal || p.Amount != 175 {
		t.Errorf("final payment = %+v", p)
	}

	var types []string
	for _, evt := range notifier.events {
		types = append(types, evt.Type)
	}
	if len(types) != 2 || types[0] != email.TypeReadyForDelivery || types[1] != email.TypeOrderDelivered {
		t.Errorf("notification types = %v", types)
	}

	// Delivered is absorbing.
	if _, err := svc.AdvanceStatus(context.Background(), "farmer-user-1", "order-1"); !errors.Is(err, models.ErrIllegalTransition) {
		t.Errorf("advance past delivered: error = %v, want ErrIllegalTransition", err)
	}
}

func TestAdvanceStatusPendingNeedsDecision(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, _ := newTestService(repo)

	_, err := svc.AdvanceStatus(context.Background(), "farmer-user-1", "order-1")
	if !errors.Is(err, models.ErrIllegalTransition) {
		t.Fatalf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestCancelOrder(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusGrowing} {
		repo := newFakeRepo(orderAt(status))
		svc, _ := newTestService(repo)

		if err := svc.CancelOrder(context.Background(), "user-1", "order-1"); err != nil {
			t.Fatalf("CancelOrder from %s: %v", status, err)
		}
		if repo.orders["order-1"].Status != models.StatusCancelled {
			t.Errorf("status = %s, want cancelled", repo.orders["order-1"].Status)
		}
		if got := repo.releasedLand["listing-1"]; got != 100 {
			t.Errorf("cancel from %s: released land = %v sqft, want 100", status, got)
		}
	}
}

func TestCancelOrderLostRaceKeepsReservation(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusGrowing))
	var zero int64
	repo.casAffected = &zero
	svc, _ := newTestService(repo)

	err := svc.CancelOrder(context.Background(), "user-1", "order-1")
	if !errors.Is(err, models.ErrConcurrentModification) {
		t.Fatalf("error = %v, want ErrConcurrentModification", err)
	}
	if len(repo.releasedLand) != 0 {
		t.Error("lost race must not release land")
	}
}

func TestCancelOrderTerminal(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusDelivered))
	svc, _ := newTestService(repo)

	err := svc.CancelOrder(context.Background(), "user-1", "order-1")
	if !errors.Is(err, models.ErrIllegalTransition) {
		t.Fatalf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestCancelOrderNotOwner(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, _ := newTestService(repo)

	err := svc.CancelOrder(context.Background(), "someone-else", "order-1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListFarmerOrdersUnknownStatus(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, _ := newTestService(repo)

	_, _, err := svc.ListFarmerOrders(context.Background(), "farmer-user-1", "shipped", 1, 10)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestGetOrderDetailsVisibility(t *testing.T) {
	repo := newFakeRepo(orderAt(models.StatusPending))
	svc, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.GetOrderDetails(ctx, "order-1", "user-1", models.RoleUser); err != nil {
		t.Errorf("consumer: %v", err)
	}
	if _, err := svc.GetOrderDetails(ctx, "order-1", "farmer-user-1", models.RoleFarmer); err != nil {
		t.Errorf("owning farmer: %v", err)
	}
	if _, err := svc.GetOrderDetails(ctx, "order-1", "anyone", models.RoleAdmin); err != nil {
		t.Errorf("admin: %v", err)
	}
	if _, err := svc.GetOrderDetails(ctx, "order-1", "user-2", models.RoleUser); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("stranger: error = %v, want ErrNotFound", err)
	}
}
