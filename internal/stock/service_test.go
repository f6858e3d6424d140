package stock

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
	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
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
);`, `
CREATE TABLE IF NOT EXISTS stock_items (
  id TEXT PRIMARY KEY,
  car_id TEXT NOT NULL UNIQUE,
  quantity INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'in_stock',
  price NUMERIC NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		conn.Exec("DELETE FROM stock_items")
		conn.Exec("DELETE FROM car_sub_details")
		conn.Exec("DELETE FROM car_details")
		conn.Exec("DELETE FROM car_photos")
		conn.Exec("DELETE FROM cars")
	})
	return conn
}

func newStockService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	catalog, err := car.NewCatalog(car.NewRepository(conn))
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), catalog, logg)
	require.NoError(t, err)
	return svc
}

func mustCreateStockTestCar(t *testing.T, conn *gorm.DB, makeName, model string) *models.Car {
	t.Helper()
	record := &models.Car{
		CategoryID:  uuid.New(),
		Make:        makeName,
		Model:       model,
		PriceAmount: decimal.NewFromInt(15000),
		Currency:    "USD",
		Status:      enums.CarStatusAvailable,
	}
	require.NoError(t, conn.Create(record).Error)
	return record
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	conn := setupStockTestDB(t)
	svc := newStockService(t, conn)
	ctx := context.Background()

	testCar := mustCreateStockTestCar(t, conn, "Toyota", "Aqua")

	created, err := svc.Upsert(ctx, UpsertInput{
		CarID:    testCar.ID,
		Quantity: 3,
		Status:   enums.StockStatusInStock,
		Price:    decimal.NewFromInt(14500),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.Quantity)
	assert.Equal(t, "Toyota Aqua", created.CarName)

	updated, err := svc.Upsert(ctx, UpsertInput{
		CarID:    testCar.ID,
		Quantity: 1,
		Status:   enums.StockStatusReserved,
		Price:    decimal.NewFromInt(14000),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 1, updated.Quantity)
	assert.Equal(t, enums.StockStatusReserved.String(), updated.Status)

	var count int64
	require.NoError(t, conn.Model(&models.StockItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertUnknownCar(t *testing.T) {
	conn := setupStockTestDB(t)
	svc := newStockService(t, conn)

	_, err := svc.Upsert(context.Background(), UpsertInput{
		CarID:  uuid.New(),
		Status: enums.StockStatusInStock,
		Price:  decimal.NewFromInt(100),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpsertValidation(t *testing.T) {
	conn := setupStockTestDB(t)
	svc := newStockService(t, conn)

	_, err := svc.Upsert(context.Background(), UpsertInput{
		Quantity: -1,
		Status:   enums.StockStatus("lost"),
		Price:    decimal.NewFromInt(-5),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["car_id"])
	assert.Equal(t, "must be at least 0", details["quantity"])
	assert.Equal(t, "is not a recognized stock status", details["status"])
	assert.Equal(t, "must be at least 0", details["price"])
}

func TestListJoinsCars(t *testing.T) {
	conn := setupStockTestDB(t)
	svc := newStockService(t, conn)
	ctx := context.Background()

	first := mustCreateStockTestCar(t, conn, "Honda", "Fit")
	second := mustCreateStockTestCar(t, conn, "Mazda", "Demio")
	require.NoError(t, conn.Create(&models.CarPhoto{
		CarID:     first.ID,
		URL:       "https://img.example.com/fit.jpg",
		IsPrimary: true,
	}).Error)

	for _, carID := range []uuid.UUID{first.ID, second.ID} {
		_, err := svc.Upsert(ctx, UpsertInput{
			CarID:  carID,
			Status: enums.StockStatusInStock,
			Price:  decimal.NewFromInt(9000),
		})
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.Meta.Total)

	byCar := map[uuid.UUID]StockItemDTO{}
	for _, item := range result.Items {
		byCar[item.CarID] = item
	}
	require.NotNil(t, byCar[first.ID].PhotoURL)
	assert.Equal(t, "https://img.example.com/fit.jpg", *byCar[first.ID].PhotoURL)
	assert.Nil(t, byCar[second.ID].PhotoURL)
}

func TestDeleteStockItem(t *testing.T) {
	conn := setupStockTestDB(t)
	svc := newStockService(t, conn)
	ctx := context.Background()

	testCar := mustCreateStockTestCar(t, conn, "Nissan", "Note")
	_, err := svc.Upsert(ctx, UpsertInput{
		CarID:  testCar.ID,
		Status: enums.StockStatusInStock,
		Price:  decimal.NewFromInt(8000),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testCar.ID))

	_, err = svc.GetByCar(ctx, testCar.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	err = svc.Delete(ctx, testCar.ID)
	require.Error(t, err)
}
