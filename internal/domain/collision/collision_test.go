package collision_test

import (
	"errors"
	"testing"

	"github.com/okian/simrank/internal/domain/collision"
	"github.com/okian/simrank/internal/domain/inversion"
	"github.com/okian/simrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIndexBuild(t *testing.T) {
	Convey("Given a target who ranked three items [2,1,3]", t, func() {
		idx, err := collision.NewIndex(model.Row{ID: 1, Ratings: []model.Rating{2, 1, 3}})
		So(err, ShouldBeNil)
		So(idx.Target(), ShouldEqual, 1)
		So(idx.Len(), ShouldEqual, 3)

		Convey("When building the vector of a user who rated them [5,9,1]", func() {
			vec, err := idx.Build(model.Row{ID: 2, Ratings: []model.Rating{5, 9, 1}})

			Convey("Then the ratings follow the target's rank order", func() {
				So(err, ShouldBeNil)
				So(vec, ShouldResemble, model.CollisionVector{9, 5, 1})
			})

			Convey("And the vector has three inversions", func() {
				n, err := inversion.Count(vec)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
			})
		})

		Convey("When building the target against itself", func() {
			vec, err := idx.Build(model.Row{ID: 1, Ratings: []model.Rating{2, 1, 3}})

			Convey("Then the vector is 1..n with no inversions", func() {
				So(err, ShouldBeNil)
				So(vec, ShouldResemble, model.CollisionVector{1, 2, 3})
				n, _ := inversion.Count(vec)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When the comparison row has the wrong length", func() {
			_, err := idx.Build(model.Row{ID: 3, Ratings: []model.Rating{1, 2}})
			So(errors.Is(err, model.ErrIntegrity), ShouldBeTrue)
		})

		Convey("When reusing a destination buffer", func() {
			buf := make(model.CollisionVector, 0, 8)
			vec, err := idx.BuildInto(buf, model.Row{ID: 4, Ratings: []model.Rating{3, 2, 1}})
			So(err, ShouldBeNil)
			So(vec, ShouldResemble, model.CollisionVector{2, 3, 1})
			So(cap(vec), ShouldEqual, 8)
		})
	})

	Convey("Given a target whose row is not a permutation", t, func() {
		_, err := collision.NewIndex(model.Row{ID: 9, Ratings: []model.Rating{1, 1, 3}})

		Convey("Then the index reports an integrity error", func() {
			So(errors.Is(err, model.ErrIntegrity), ShouldBeTrue)
		})
	})
}

func TestBuildFromTable(t *testing.T) {
	Convey("Given a rating table", t, func() {
		table := &model.RatingTable{
			Items: 4,
			Rows: []model.Row{
				{ID: 10, Ratings: []model.Rating{4, 3, 2, 1}},
				{ID: 20, Ratings: []model.Rating{1, 2, 3, 4}},
				{ID: 30, Ratings: []model.Rating{2, 1, 4, 3}},
				{ID: 30, Ratings: []model.Rating{1, 2, 3, 4}},
			},
		}

		Convey("When both users exist once", func() {
			vec, err := collision.Build(table, 10, 20)
			So(err, ShouldBeNil)
			So(vec, ShouldResemble, model.CollisionVector{4, 3, 2, 1})
		})

		Convey("When the target is missing", func() {
			_, err := collision.Build(table, 99, 20)
			So(errors.Is(err, model.ErrUserNotFound), ShouldBeTrue)
		})

		Convey("When the comparison user is missing", func() {
			_, err := collision.Build(table, 10, 99)
			So(errors.Is(err, model.ErrUserNotFound), ShouldBeTrue)
		})

		Convey("When a user appears twice", func() {
			_, err := collision.Build(table, 30, 10)
			So(errors.Is(err, model.ErrDuplicateUser), ShouldBeTrue)
		})
	})
}
