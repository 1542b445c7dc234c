package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/onbase/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	Convey("Given ISO dates", t, func() {
		Convey("When parsing a plain date", func() {
			d, err := model.ParseDate("2025-06-14")

			Convey("Then it equals the constructed date", func() {
				So(err, ShouldBeNil)
				So(d, ShouldResemble, model.NewDate(2025, time.June, 14))
				So(d.String(), ShouldEqual, "2025-06-14")
			})
		})

		Convey("When parsing a timestamp", func() {
			d, err := model.ParseDate("2025-06-14T23:05:00Z")

			Convey("Then the time component is dropped", func() {
				So(err, ShouldBeNil)
				So(d.String(), ShouldEqual, "2025-06-14")
			})
		})

		Convey("When parsing garbage", func() {
			_, err := model.ParseDate("June 14")

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When comparing dates", func() {
			a := model.NewDate(2024, time.September, 30)
			b := model.NewDate(2025, time.March, 27)
			So(a.Before(b), ShouldBeTrue)
			So(b.After(a), ShouldBeTrue)
			So(a.After(a), ShouldBeFalse)
		})
	})
}

func TestStreakRecordJSON(t *testing.T) {
	Convey("Given an ended streak record", t, func() {
		rank := 7
		rec := model.StreakRecord{
			Status:    model.StatusEnded,
			Streak:    2,
			StartDate: model.DatePtr(model.NewDate(2025, time.May, 1)),
			EndDate:   model.DatePtr(model.NewDate(2025, time.May, 3)),
			Games: []model.GameOutcome{
				{Date: model.NewDate(2025, time.May, 2), Season: 2025, Opponent: "New York Mets", Hits: 1, PlateAppearances: 4, ReachedBase: true},
				{Date: model.NewDate(2025, time.May, 1), Season: 2025, Opponent: "New York Mets", Walks: 2, PlateAppearances: 5, ReachedBase: true},
			},
			FinalRank: &rank,
		}

		Convey("When it is encoded", func() {
			b, err := json.Marshal(rec)
			So(err, ShouldBeNil)

			Convey("Then dates use the ISO layout and keys match the document format", func() {
				s := string(b)
				So(s, ShouldContainSubstring, `"status":"ended"`)
				So(s, ShouldContainSubstring, `"start_date":"2025-05-01"`)
				So(s, ShouldContainSubstring, `"final_rank":7`)
			})

			Convey("And decoding yields an equal record", func() {
				var back model.StreakRecord
				So(json.Unmarshal(b, &back), ShouldBeNil)
				So(back, ShouldResemble, rec)
			})
		})

		Convey("When it is cloned and the clone is changed", func() {
			c := rec.Clone()
			*c.FinalRank = 1
			c.Games[0].Hits = 4
			end := model.NewDate(2026, time.April, 1)
			*c.EndDate = end

			Convey("Then the original is untouched", func() {
				So(*rec.FinalRank, ShouldEqual, 7)
				So(rec.Games[0].Hits, ShouldEqual, 1)
				So(rec.EndDate.String(), ShouldEqual, "2025-05-03")
			})
		})
	})

	Convey("Given the default record", t, func() {
		rec := model.DefaultRecord()
		So(rec.Active(), ShouldBeTrue)
		So(rec.Streak, ShouldEqual, 0)
		So(rec.StartDate, ShouldBeNil)
		So(rec.EndDate, ShouldBeNil)
		So(rec.FinalRank, ShouldBeNil)
		So(rec.Games, ShouldBeEmpty)
		So(model.ReachedBase(0, 0, 1), ShouldBeTrue)
		So(model.ReachedBase(0, 0, 0), ShouldBeFalse)
	})
}
