package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/patterns"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var orderColumns = []string{
	"id", "userEmail", "userName", "date", "items", "total", "status",
	"shippingCompany", "trackingNumber", "shipping",
}

// jsonWith matches a JSON column argument containing every fragment.
type jsonWith []string

func (j jsonWith) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, frag := range j {
		if !strings.Contains(s, frag) {
			return false
		}
	}
	return true
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	opts := patterns.DefaultGuardOptions()
	opts.Timeout = time.Second
	s, err := OpenConn(conn, opts)
	require.NoError(t, err)
	return s, mock
}

func TestCreateOrderWritesCamelCaseRow(t *testing.T) {
	s, mock := newMockStore(t)
	date := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders" ("id","userEmail","userName","date","items","total","status","shippingCompany","trackingNumber","shipping")`)).
		WithArgs("ORD-1", "somchai@bec.ac.th", "Somchai", date,
			jsonWith{`"selectedSize":"L"`, `"isRecommended":true`},
			460, "pending", nil, nil,
			jsonWith{`"zipCode":"41160"`}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order := models.Order{
		ID:        "ORD-1",
		UserEmail: "somchai@bec.ac.th",
		UserName:  "Somchai",
		Date:      date,
		Items: []models.CartItem{{
			Product:      models.Product{ID: "1", Name: "เสื้อ", Price: 230, IsRecommended: true},
			Quantity:     2,
			SelectedSize: "L",
		}},
		Total:    460,
		Status:   models.OrderStatusPending,
		Shipping: &models.ShippingInfo{Name: "Somchai", Phone: "0812345678", Address: "Ban Phue", ZipCode: "41160"},
	}

	saved, err := s.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderDecodesRow(t *testing.T) {
	s, mock := newMockStore(t)
	date := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
			"ORD-1", "somchai@bec.ac.th", "Somchai", date,
			[]byte(`[{"id":"1","name":"เสื้อ","price":230,"quantity":2,"selectedSize":"L"}]`),
			460, "shipped", "Kerry", "KE123", nil))

	order, err := s.GetOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Equal(t, "Kerry", order.ShippingCompany)
	assert.Equal(t, "KE123", order.TrackingNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "L", order.Items[0].SelectedSize)
	assert.Equal(t, 460, order.Items[0].Subtotal())
	assert.Nil(t, order.Shipping)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := s.GetOrder(context.Background(), "ORD-404")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.False(t, models.IsRemote(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByUserFiltersAndSorts(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE lower("userEmail") = $1 ORDER BY date desc`)).
		WithArgs("somchai@bec.ac.th").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ORD-2", "somchai@bec.ac.th", "Somchai", time.Now(), []byte(`[]`), 5, "pending", nil, nil, nil).
			AddRow("ORD-1", "somchai@bec.ac.th", "Somchai", time.Now(), []byte(`[]`), 460, "confirmed", nil, nil, nil))

	orders, err := s.ListOrdersByUser(context.Background(), " Somchai@BEC.ac.th ")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-2", orders[0].ID)
	assert.Equal(t, models.OrderStatusConfirmed, orders[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ship writes carrier columns", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "shippingCompany"=$1,"status"=$2,"trackingNumber"=$3 WHERE id = $4`)).
			WithArgs("Kerry", "shipped", "KE123", "ORD-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.UpdateOrderStatus(ctx, "ORD-1", models.OrderStatusShipped,
			&models.Shipment{Company: "Kerry", TrackingNumber: "KE123"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status only", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1 WHERE id = $2`)).
			WithArgs("confirmed", "ORD-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateOrderStatus(ctx, "ORD-1", models.OrderStatusConfirmed, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1 WHERE id = $2`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdateOrderStatus(ctx, "ORD-404", models.OrderStatusCancelled, nil)
		assert.True(t, errors.Is(err, models.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductQueries(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "custom_products" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "category", "description", "image", "stock", "level", "isRecommended"}).
			AddRow("custom-1", "หมวก", 150, string(models.CategoryAccessories), "", "hat.png", 3, "", true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "custom_products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "custom_products" SET .*"isRecommended"=\$4.*"stock"=\$8 WHERE id = \$9`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "custom_products" WHERE id = $1`)).
		WithArgs("custom-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].IsRecommended)
	assert.Equal(t, models.CategoryAccessories, products[0].Category)

	hat := products[0]
	require.NoError(t, s.CreateProduct(ctx, hat))

	hat.Stock = 0
	hat.IsRecommended = false
	require.NoError(t, s.UpdateProduct(ctx, hat))

	err = s.DeleteProduct(ctx, "custom-9")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountQueries(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)
	userColumns := []string{"email", "password", "name", "role", "studentId"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("somchai@bec.ac.th", "hash", "Somchai", "", "64001"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" ("email","password","name","role","studentId")`)).
		WithArgs("new@bec.ac.th", "hash", "New", "user", "").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" ORDER BY email`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("admin@bec.ac.th", "hash", "Admin", "admin", ""))

	account, err := s.FindAccount(ctx, "Somchai@bec.ac.th")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, account.Role)
	assert.Equal(t, "64001", account.StudentID)
	assert.Equal(t, "hash", account.PasswordHash)

	err = s.CreateAccount(ctx, models.UserAccount{
		UserProfile:  models.UserProfile{Email: "New@bec.ac.th", Name: "New"},
		PasswordHash: "hash",
	})
	assert.True(t, errors.Is(err, models.ErrConflict))
	assert.False(t, models.IsRemote(err))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverFailureIsRemote(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnError(&pgconn.PgError{Code: "57P01", Message: "terminating connection"})

	_, err := s.ListUsers(context.Background())
	assert.True(t, models.IsRemote(err))
	assert.Contains(t, err.Error(), "list users")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}
