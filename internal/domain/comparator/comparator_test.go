package comparator_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/okian/simrank/internal/domain/comparator"
	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func row(id model.UserID, ratings ...model.Rating) model.Row {
	return model.Row{ID: id, Ratings: ratings}
}

func randomTable(rng *rand.Rand, users, items int) *model.RatingTable {
	t := &model.RatingTable{Items: items}
	for u := 0; u < users; u++ {
		perm := rng.Perm(items)
		ratings := make([]model.Rating, items)
		for i, p := range perm {
			ratings[i] = model.Rating(p + 1)
		}
		t.Rows = append(t.Rows, model.Row{ID: model.UserID(u*3 + 1), Ratings: ratings})
	}
	return t
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	Convey("Given a target ranking [2,1,3] and a user rating [5,9,1]", t, func() {
		table := &model.RatingTable{Items: 3, Rows: []model.Row{
			row(1, 2, 1, 3),
			row(2, 5, 9, 1),
		}}

		Convey("When ranking against user 1", func() {
			res, err := comparator.Compare(ctx, table, 1)

			Convey("Then user 2 has three inversions", func() {
				So(err, ShouldBeNil)
				So(res.Target, ShouldEqual, 1)
				So(res.Entries, ShouldResemble, []model.Ranking{{UserID: 2, Inversions: 3}})
			})
		})
	})

	Convey("Given a table with several users", t, func() {
		table := &model.RatingTable{Items: 4, Rows: []model.Row{
			row(10, 1, 2, 3, 4),
			row(20, 4, 3, 2, 1), // reversed: 6
			row(30, 2, 1, 3, 4), // one swap: 1
			row(40, 1, 2, 3, 4), // identical: 0
			row(50, 1, 3, 2, 4), // one swap: 1
		}}

		Convey("When ranking against user 10", func() {
			res, err := comparator.Compare(ctx, table, 10)

			Convey("Then users are ordered by inversions with ties in input order", func() {
				So(err, ShouldBeNil)
				So(res.Entries, ShouldResemble, []model.Ranking{
					{UserID: 40, Inversions: 0},
					{UserID: 30, Inversions: 1},
					{UserID: 50, Inversions: 1},
					{UserID: 20, Inversions: 6},
				})
			})
		})

		Convey("When the target is missing", func() {
			_, err := comparator.Compare(ctx, table, 99)
			So(errors.Is(err, model.ErrUserNotFound), ShouldBeTrue)
			So(comparator.ErrorKind(err), ShouldEqual, "user_not_found")
		})
	})

	Convey("Given a table holding only the target", t, func() {
		table := &model.RatingTable{Items: 2, Rows: []model.Row{row(5, 2, 1)}}
		res, err := comparator.Compare(ctx, table, 5)

		Convey("Then the ranking is empty and no error is returned", func() {
			So(err, ShouldBeNil)
			So(res.Entries, ShouldBeEmpty)
		})
	})

	Convey("Given a table with zero items", t, func() {
		table := &model.RatingTable{Items: 0, Rows: []model.Row{row(1), row(2), row(3)}}
		res, err := comparator.Compare(ctx, table, 2)

		Convey("Then every user scores zero", func() {
			So(err, ShouldBeNil)
			So(res.Entries, ShouldResemble, []model.Ranking{{UserID: 1}, {UserID: 3}})
		})
	})

	Convey("Given a target row that is not a permutation", t, func() {
		table := &model.RatingTable{Items: 3, Rows: []model.Row{row(1, 1, 1, 2), row(2, 1, 2, 3)}}
		_, err := comparator.Compare(ctx, table, 1)

		Convey("Then an integrity error is returned", func() {
			So(errors.Is(err, model.ErrIntegrity), ShouldBeTrue)
			So(comparator.ErrorKind(err), ShouldEqual, "integrity")
		})
	})

	Convey("Given a comparison row with the wrong length", t, func() {
		table := &model.RatingTable{Items: 3, Rows: []model.Row{row(1, 1, 2, 3), row(2, 1, 2)}}

		Convey("Then both loops report an integrity error", func() {
			_, err := comparator.Compare(ctx, table, 1)
			So(errors.Is(err, model.ErrIntegrity), ShouldBeTrue)

			_, err = comparator.Compare(ctx, table, 1, comparator.WithWorkers(4))
			So(errors.Is(err, model.ErrIntegrity), ShouldBeTrue)
		})
	})
}

func TestCompareDuplicates(t *testing.T) {
	ctx := context.Background()

	Convey("Given a table with a repeated target ID", t, func() {
		table := &model.RatingTable{Items: 3, Rows: []model.Row{
			row(1, 3, 2, 1),
			row(2, 1, 2, 3),
			row(1, 1, 2, 3),
			row(3, 3, 2, 1),
		}}

		Convey("When the reject policy is in force", func() {
			_, err := comparator.Compare(ctx, table, 1)
			So(errors.Is(err, model.ErrDuplicateUser), ShouldBeTrue)
		})

		Convey("When the last-row policy is in force", func() {
			res, err := comparator.Compare(ctx, table, 1, comparator.WithPolicy(model.PolicyLast))

			Convey("Then the last row is the target and its copies are skipped", func() {
				So(err, ShouldBeNil)
				So(res.Entries, ShouldResemble, []model.Ranking{
					{UserID: 2, Inversions: 0},
					{UserID: 3, Inversions: 3},
				})
			})
		})
	})

	Convey("Given a repeated non-target ID under the last-row policy", t, func() {
		table := &model.RatingTable{Items: 2, Rows: []model.Row{
			row(1, 1, 2),
			row(2, 2, 1),
			row(2, 1, 2),
		}}
		res, err := comparator.Compare(ctx, table, 1, comparator.WithPolicy(model.PolicyLast))

		Convey("Then each copy is compared", func() {
			So(err, ShouldBeNil)
			So(res.Entries, ShouldResemble, []model.Ranking{
				{UserID: 2, Inversions: 0},
				{UserID: 2, Inversions: 1},
			})
		})
	})
}

func TestCompareParallel(t *testing.T) {
	Convey("Given a random table", t, func() {
		rng := rand.New(rand.NewSource(11)) //nolint:gosec // deterministic seed for reproducible tests
		table := randomTable(rng, 300, 50)
		target := table.Rows[17].ID

		Convey("When ranking sequentially and with workers", func() {
			seq, err := comparator.Compare(context.Background(), table, target)
			So(err, ShouldBeNil)

			par, err := comparator.Compare(context.Background(), table, target,
				comparator.WithWorkers(4),
				comparator.WithQueueCapacity(8),
				comparator.WithLogger(logger.Get()),
			)
			So(err, ShouldBeNil)

			Convey("Then both produce the same ordering", func() {
				So(len(seq.Entries), ShouldEqual, 299)
				So(par.Entries, ShouldResemble, seq.Entries)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := comparator.Compare(ctx, table, target, comparator.WithWorkers(4))

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})

			Convey("Then the sequential path reports it too", func() {
				_, err := comparator.Compare(ctx, table, target)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
