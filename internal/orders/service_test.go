package order

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	"github.com/dealerhub/dealerhub-backend/pkg/db"
	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS clients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  country TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number INTEGER NOT NULL UNIQUE DEFAULT (abs(random())),
  client_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  currency TEXT NOT NULL DEFAULT 'USD',
  total NUMERIC NOT NULL,
  notes TEXT,
  confirmed_at DATETIME,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  car_id TEXT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS invoices (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  invoice_number TEXT NOT NULL UNIQUE,
  amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  issued_at DATETIME NOT NULL,
  due_at DATETIME,
  paid INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cars (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  subcategory_id TEXT,
  ref_no TEXT,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  model_code TEXT,
  variant TEXT,
  year INTEGER,
  reg_year_month TEXT,
  mileage INTEGER,
  engine_cc INTEGER,
  transmission TEXT,
  drive TEXT,
  steering TEXT,
  fuel TEXT,
  color TEXT,
  seats INTEGER,
  grade_overall NUMERIC,
  grade_exterior TEXT,
  grade_interior TEXT,
  price_amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  price_basis TEXT,
  fob_value NUMERIC,
  freight NUMERIC,
  chassis_no_masked TEXT,
  chassis_no_full TEXT,
  location TEXT,
  country TEXT,
  status TEXT NOT NULL DEFAULT 'available',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS car_photos (
  id TEXT PRIMARY KEY,
  car_id TEXT NOT NULL,
  url TEXT NOT NULL,
  is_primary INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_hidden INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS car_details (
  id TEXT PRIMARY KEY,
  car_id TEXT NOT NULL,
  short_title TEXT,
  full_title TEXT,
  description TEXT,
  images TEXT NOT NULL DEFAULT '{}',
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS car_sub_details (
  id TEXT PRIMARY KEY,
  detail_id TEXT NOT NULL,
  title TEXT,
  description TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		for _, table := range []string{"invoices", "order_items", "orders", "clients", "car_sub_details", "car_details", "car_photos", "cars"} {
			conn.Exec("DELETE FROM " + table)
		}
	})
	return conn
}

type orderTestEnv struct {
	conn *gorm.DB
	svc  Service
}

func newOrderTestEnv(t *testing.T) orderTestEnv {
	t.Helper()
	conn := setupOrderTestDB(t)

	catalog, err := car.NewCatalog(car.NewRepository(conn))
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), &orderTestClients{conn: conn}, catalog, logg)
	require.NoError(t, err)
	return orderTestEnv{conn: conn, svc: svc}
}

type orderTestClients struct {
	conn *gorm.DB
}

func (c *orderTestClients) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var row models.Client
	if err := c.conn.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (e orderTestEnv) mustCreateClient(t *testing.T, name string) *models.Client {
	t.Helper()
	row := &models.Client{Name: name}
	require.NoError(t, e.conn.Create(row).Error)
	return row
}

func (e orderTestEnv) mustCreateCar(t *testing.T, makeName, model string, price int64, status enums.CarStatus) *models.Car {
	t.Helper()
	row := &models.Car{
		CategoryID:  uuid.New(),
		Make:        makeName,
		Model:       model,
		PriceAmount: decimal.NewFromInt(price),
		Currency:    "USD",
		Status:      status,
	}
	require.NoError(t, e.conn.Create(row).Error)
	return row
}

func TestCreateOrderSnapshotsLines(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	buyer := env.mustCreateClient(t, "Buyer")
	aqua := env.mustCreateCar(t, "Toyota", "Aqua", 15000, enums.CarStatusAvailable)
	fit := env.mustCreateCar(t, "Honda", "Fit", 11000, enums.CarStatusAvailable)

	override := decimal.NewFromInt(10500)
	created, err := env.svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: buyer.ID,
		Items: []OrderItemInput{
			{CarID: aqua.ID, Quantity: 1},
			{CarID: fit.ID, Quantity: 2, UnitPrice: &override},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "USD", created.Currency)
	assert.True(t, created.Total.Equal(decimal.NewFromInt(15000+2*10500)))
	require.Len(t, created.Items, 2)

	byCar := map[uuid.UUID]OrderItemDTO{}
	for _, item := range created.Items {
		require.NotNil(t, item.CarID)
		byCar[*item.CarID] = item
	}
	assert.Equal(t, "Toyota Aqua", byCar[aqua.ID].Name)
	assert.True(t, byCar[aqua.ID].UnitPrice.Equal(decimal.NewFromInt(15000)))
	assert.True(t, byCar[fit.ID].UnitPrice.Equal(override))
}

func TestCreateOrderRejectsSoldCar(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	buyer := env.mustCreateClient(t, "Buyer")
	sold := env.mustCreateCar(t, "Mazda", "Demio", 8000, enums.CarStatusSold)

	_, err := env.svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: buyer.ID,
		Items:    []OrderItemInput{{CarID: sold.ID, Quantity: 1}},
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestCreateOrderValidation(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateOrder(ctx, CreateOrderInput{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	buyer := env.mustCreateClient(t, "Buyer")
	testCar := env.mustCreateCar(t, "Nissan", "Note", 7000, enums.CarStatusAvailable)

	_, err = env.svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: buyer.ID,
		Items:    []OrderItemInput{{CarID: testCar.ID, Quantity: 0}},
	})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 1", details["items.0.quantity"])
}

func TestTransitionOrderLifecycle(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	buyer := env.mustCreateClient(t, "Buyer")
	testCar := env.mustCreateCar(t, "Suzuki", "Swift", 9000, enums.CarStatusAvailable)

	created, err := env.svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: buyer.ID,
		Items:    []OrderItemInput{{CarID: testCar.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	confirmed, err := env.svc.TransitionOrder(ctx, created.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	delivered, err := env.svc.TransitionOrder(ctx, created.ID, enums.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, "delivered", delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = env.svc.TransitionOrder(ctx, created.ID, enums.OrderStatusPending)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestTransitionOrderSkipsDisallowedJump(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	buyer := env.mustCreateClient(t, "Buyer")
	testCar := env.mustCreateCar(t, "Subaru", "Impreza", 16000, enums.CarStatusAvailable)

	created, err := env.svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: buyer.ID,
		Items:    []OrderItemInput{{CarID: testCar.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = env.svc.TransitionOrder(ctx, created.ID, enums.OrderStatusDelivered)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "pending", details["from"])
	assert.Equal(t, "delivered", details["to"])
}

func TestIssueInvoiceLifecycle(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	buyer := env.mustCreateClient(t, "Buyer")
	testCar := env.mustCreateCar(t, "Toyota", "Prius", 20000, enums.CarStatusAvailable)

	created, err := env.svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: buyer.ID,
		Items:    []OrderItemInput{{CarID: testCar.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = env.svc.IssueInvoice(ctx, created.ID, nil)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	_, err = env.svc.TransitionOrder(ctx, created.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)

	invoice, err := env.svc.IssueInvoice(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.True(t, invoice.Amount.Equal(decimal.NewFromInt(20000)))
	assert.Contains(t, invoice.InvoiceNumber, "INV-")
	assert.False(t, invoice.Paid)

	_, err = env.svc.IssueInvoice(ctx, created.ID, nil)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	paid, err := env.svc.MarkInvoicePaid(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)

	_, err = env.svc.MarkInvoicePaid(ctx, invoice.ID)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestListOrdersFilters(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	first := env.mustCreateClient(t, "First")
	second := env.mustCreateClient(t, "Second")

	for i, clientID := range []uuid.UUID{first.ID, first.ID, second.ID} {
		testCar := env.mustCreateCar(t, "Make", fmt.Sprintf("Model%d", i), 1000, enums.CarStatusAvailable)
		created, err := env.svc.CreateOrder(ctx, CreateOrderInput{
			ClientID: clientID,
			Items:    []OrderItemInput{{CarID: testCar.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		if i == 0 {
			_, err = env.svc.TransitionOrder(ctx, created.ID, enums.OrderStatusConfirmed)
			require.NoError(t, err)
		}
	}

	all, err := env.svc.ListOrders(ctx, nil, nil, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Meta.Total)

	confirmed := enums.OrderStatusConfirmed
	confirmedOnly, err := env.svc.ListOrders(ctx, &confirmed, nil, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, confirmedOnly.Meta.Total)

	mine, err := env.svc.ListOrders(ctx, nil, &first.ID, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Meta.Total)
}
