package gormstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return New(db), mock
}

func TestCreateProductFailsClosedWhenCounterCannotAdvance(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "counters"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	p := models.Product{Name: "Widget"}
	err := s.CreateProduct(context.Background(), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advance products sequence")
	assert.Zero(t, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductFailsClosedWhenCounterCannotBeRead(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "counters"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "counters"`).WillReturnError(errors.New("read timeout"))
	mock.ExpectRollback()

	p := models.Product{Name: "Widget"}
	err := s.CreateProduct(context.Background(), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read products sequence")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductRollsBackOnCascadeFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Desk"))
	mock.ExpectExec(`DELETE FROM "products"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "favorites"`).WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, _, err := s.DeleteProduct(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete favorites")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProductsEscapesSearchOnPostgres(t *testing.T) {
	s, mock := newMockStore(t)

	pattern := `%100\%\_c%`
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE \(+LOWER\(title_t1\) LIKE \$1 ESCAPE`).
		WithArgs(pattern, pattern, pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "title_t1"}).AddRow(3, "Mid", "100%_cotton"))

	products, err := s.ListProducts(context.Background(), store.ProductQuery{Search: "100%_C"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, uint(3), products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
