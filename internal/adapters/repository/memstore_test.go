package repository_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/okian/simrank/internal/adapters/repository"
	"github.com/okian/simrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func table(users int) *model.RatingTable {
	t := &model.RatingTable{Items: 2}
	for i := 0; i < users; i++ {
		t.Rows = append(t.Rows, model.Row{ID: model.UserID(i), Ratings: []model.Rating{1, 2}})
	}
	return t
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemoryStore()
		So(store.Count(ctx), ShouldEqual, 0)

		Convey("When a table is registered", func() {
			ds, err := store.Put(ctx, "films", table(3))
			So(err, ShouldBeNil)
			So(ds, ShouldResemble, repository.Dataset{Name: "films", Users: 3, Items: 2})

			Convey("Then it can be read back", func() {
				got, err := store.Get(ctx, "films")
				So(err, ShouldBeNil)
				So(got.Users(), ShouldEqual, 3)
			})

			Convey("Then replacing it keeps one entry", func() {
				_, err := store.Put(ctx, "films", table(5))
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 1)
				got, _ := store.Get(ctx, "films")
				So(got.Users(), ShouldEqual, 5)
			})

			Convey("Then deleting it makes it unknown", func() {
				So(store.Delete(ctx, "films"), ShouldBeNil)
				_, err := store.Get(ctx, "films")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(store.Delete(ctx, "films"), repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When several tables are registered", func() {
			_, _ = store.Put(ctx, "zeta", table(1))
			_, _ = store.Put(ctx, "alpha", table(2))

			Convey("Then List orders them by name", func() {
				list := store.List(ctx)
				So(len(list), ShouldEqual, 2)
				So(list[0].Name, ShouldEqual, "alpha")
				So(list[1].Name, ShouldEqual, "zeta")
			})
		})

		Convey("When the name is invalid", func() {
			for _, name := range []string{"", "../etc", "a b", "-lead"} {
				_, err := store.Put(ctx, name, table(1))
				So(errors.Is(err, repository.ErrInvalidName), ShouldBeTrue)
			}
		})

		Convey("When the table is nil", func() {
			_, err := store.Put(ctx, "films", nil)
			So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
		})
	})

	Convey("Given a store capped at one dataset", t, func() {
		store := repository.NewMemoryStore(repository.WithMaxDatasets(1))
		_, err := store.Put(ctx, "one", table(1))
		So(err, ShouldBeNil)

		Convey("Then a second name is refused but replacement is allowed", func() {
			_, err := store.Put(ctx, "two", table(1))
			So(errors.Is(err, repository.ErrFull), ShouldBeTrue)
			_, err = store.Put(ctx, "one", table(2))
			So(err, ShouldBeNil)
		})
	})
}
