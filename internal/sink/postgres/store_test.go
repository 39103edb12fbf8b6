package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"pigiame-crawler/internal/crawler"
)

func ptr[T any](v T) *T { return &v }

func TestWriteBatchInsertsAllColumns(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "listings")
	require.NoError(t, err)

	createdAt := time.Unix(1700000000, 0).UTC()
	adDate := time.Date(2020, time.March, 10, 13, 24, 0, 0, time.UTC)

	rec := crawler.ListingRecord{
		AdID:           1703174,
		Location:       "nairobi cbd",
		Region:         "nairobi",
		Currency:       "ksh",
		Price:          ptr(1350000.0),
		AdDateInserted: &adDate,
		Condition:      ptr("used"),
		Make:           ptr("toyota"),
		Model:          ptr("vitz"),
		Transmission:   ptr("automatic"),
		DriveType:      ptr("2wd"),
		Mileage:        ptr(int64(147000)),
		MileageUnit:    ptr("km"),
		BuildYear:      ptr(int16(2010)),
		CarFeatures:    ptr(`["alloy wheels","cd player"]`),
		CreatedAt:      createdAt,
	}

	mock.ExpectExec("INSERT INTO listings").
		WithArgs(
			rec.AdID,
			ptr("nairobi cbd"),
			ptr("nairobi"),
			ptr("ksh"),
			rec.Price,
			rec.AdDateInserted,
			rec.Condition,
			rec.Make,
			rec.Model,
			rec.Transmission,
			rec.DriveType,
			rec.Mileage,
			rec.MileageUnit,
			rec.BuildYear,
			rec.CarFeatures,
			rec.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.WriteBatch(context.Background(), []crawler.ListingRecord{rec}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteBatchSparseRecordInsertsNulls(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "listings")
	require.NoError(t, err)

	createdAt := time.Unix(1700000000, 0).UTC()
	rec := crawler.ListingRecord{AdID: 42, Currency: "ksh", CreatedAt: createdAt}

	mock.ExpectExec("INSERT INTO listings").
		WithArgs(
			int64(42),
			(*string)(nil),
			(*string)(nil),
			ptr("ksh"),
			(*float64)(nil),
			(*time.Time)(nil),
			(*string)(nil),
			(*string)(nil),
			(*string)(nil),
			(*string)(nil),
			(*string)(nil),
			(*int64)(nil),
			(*string)(nil),
			(*int16)(nil),
			(*string)(nil),
			createdAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.WriteBatch(context.Background(), []crawler.ListingRecord{rec}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteBatchEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "listings")
	require.NoError(t, err)

	require.NoError(t, store.WriteBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteBatchPropagatesExecError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "listings")
	require.NoError(t, err)

	dbErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO listings").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(dbErr)

	err = store.WriteBatch(context.Background(), []crawler.ListingRecord{{AdID: 7}})
	require.ErrorIs(t, err, dbErr)
}

func TestNewWithPoolRejectsBadTableName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewWithPool(mock, "listings; drop table users")
	require.Error(t, err)
}
