package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/ratingscope/internal/domain/model"
	types "github.com/okian/ratingscope/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayerRecordJSON(t *testing.T) {
	Convey("Given a player record", t, func() {
		rec := types.PlayerRecord{
			ID:            "fide_2000000",
			Name:          "Alex Grandmaster",
			CurrentRating: 2650,
			PeakRating:    2750,
			PeakDate:      "2023",
			RatingHistory: model.Series{{Year: 2022, Rating: 2700}, {Year: 2023, Rating: 2750}},
			Trend:         model.TrendImproving,
		}

		Convey("When it is encoded", func() {
			raw, err := json.Marshal(rec)
			So(err, ShouldBeNil)

			var fields map[string]any
			So(json.Unmarshal(raw, &fields), ShouldBeNil)

			Convey("Then it uses the camelCase wire names", func() {
				for _, key := range []string{"id", "name", "currentRating", "peakRating", "peakDate", "ratingHistory", "trend"} {
					So(fields, ShouldContainKey, key)
				}
				So(fields["trend"], ShouldEqual, "improving")
				So(fields["ratingHistory"], ShouldHaveLength, 2)
			})
		})
	})
}

func TestDebugOmitsEmptyFields(t *testing.T) {
	Convey("Given a debug payload with only a snippet", t, func() {
		raw, err := json.Marshal(types.Debug{Snippet: "<html>"})
		So(err, ShouldBeNil)

		Convey("Then optional fields are omitted", func() {
			var fields map[string]any
			So(json.Unmarshal(raw, &fields), ShouldBeNil)
			So(fields, ShouldResemble, map[string]any{"snippet": "<html>"})
		})
	})
}
