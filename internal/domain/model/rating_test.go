package model_test

import (
	"testing"

	model "github.com/okian/ratingscope/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRange(t *testing.T) {
	convey.Convey("Given the default plausible range", t, func() {
		r := model.DefaultRange()

		convey.Convey("Then the bounds are inclusive", func() {
			convey.So(r.Contains(800), convey.ShouldBeTrue)
			convey.So(r.Contains(3000), convey.ShouldBeTrue)
			convey.So(r.Contains(799), convey.ShouldBeFalse)
			convey.So(r.Contains(3001), convey.ShouldBeFalse)
		})
	})
}

func TestSeries(t *testing.T) {
	convey.Convey("Given a year to rating mapping", t, func() {
		s := model.FromMap(map[int]int{2019: 1900, 2017: 1850, 2018: 1950})

		convey.Convey("Then the series is sorted by year", func() {
			convey.So(s, convey.ShouldResemble, model.Series{
				{Year: 2017, Rating: 1850},
				{Year: 2018, Rating: 1950},
				{Year: 2019, Rating: 1900},
			})
		})

		convey.Convey("Then Latest returns the highest year", func() {
			p, ok := s.Latest()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(p, convey.ShouldResemble, model.Point{Year: 2019, Rating: 1900})
		})

		convey.Convey("Then Max returns the first maximum", func() {
			p, ok := model.Series{{Year: 2020, Rating: 2000}, {Year: 2021, Rating: 2000}}.Max()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(p.Year, convey.ShouldEqual, 2020)
		})

		convey.Convey("Then Find locates exact years only", func() {
			p, ok := s.Find(2018)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(p.Rating, convey.ShouldEqual, 1950)
			_, ok = s.Find(2016)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given an empty mapping", t, func() {
		s := model.FromMap(nil)

		convey.Convey("Then the series is empty", func() {
			convey.So(s, convey.ShouldBeEmpty)
			_, ok := s.Latest()
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = s.Max()
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestCategoryFor(t *testing.T) {
	convey.Convey("Given ratings across the scale", t, func() {
		convey.So(model.CategoryFor(900), convey.ShouldEqual, model.CategoryBeginner)
		convey.So(model.CategoryFor(1000), convey.ShouldEqual, model.CategoryAmateur)
		convey.So(model.CategoryFor(1799), convey.ShouldEqual, model.CategoryIntermediate)
		convey.So(model.CategoryFor(2199), convey.ShouldEqual, model.CategoryAdvanced)
		convey.So(model.CategoryFor(2300), convey.ShouldEqual, model.CategoryExpert)
		convey.So(model.CategoryFor(2500), convey.ShouldEqual, model.CategoryMaster)
		convey.So(model.CategoryFor(2600), convey.ShouldEqual, model.CategoryGrandmaster)
	})

	convey.Convey("Given trend values", t, func() {
		convey.So(model.TrendStable.Valid(), convey.ShouldBeTrue)
		convey.So(model.Trend("sideways").Valid(), convey.ShouldBeFalse)
	})
}
