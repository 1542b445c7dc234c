package ranking_test

import (
	"testing"
	"time"

	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	player = model.Player{ID: 656941, Name: "Kyle Schwarber", Team: "PHI"}
	now    = time.Date(2025, time.August, 2, 18, 0, 0, 0, time.UTC)
)

func reference() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{Name: "Ted Williams", Team: "BOS", Streak: 84, Seasons: "1949"},
		{Name: "Joe DiMaggio", Team: "NYY", Streak: 74, Seasons: "1941"},
		{Name: "Orlando Cabrera", Team: "BOS", Streak: 63, Seasons: "2006"},
		{Name: "Jim Thome", Team: "CLE", Streak: 60, Seasons: "2002"},
		{Name: "Duke Snider", Team: "BRO", Streak: 58, Seasons: "1954"},
	}
}

func active(n int) model.StreakRecord {
	return model.StreakRecord{
		Status:    model.StatusActive,
		Streak:    n,
		StartDate: model.DatePtr(model.NewDate(2024, time.September, 3)),
	}
}

func TestRank(t *testing.T) {
	Convey("Given reference streaks of 84, 58, 58 and 47", t, func() {
		ref := []model.LeaderboardEntry{
			{Name: "A", Streak: 84},
			{Name: "B", Streak: 58},
			{Name: "C", Streak: 58},
			{Name: "D", Streak: 47},
		}

		Convey("When the tracked streak is 60", func() {
			out := ranking.Rank(ref, active(60), player, now)

			Convey("Then ranks follow position with stable ties", func() {
				So(out, ShouldHaveLength, 5)
				streaks := make([]int, len(out))
				ranks := make([]int, len(out))
				names := make([]string, len(out))
				for i, e := range out {
					streaks[i], ranks[i], names[i] = e.Streak, e.Rank, e.Name
				}
				So(streaks, ShouldResemble, []int{84, 60, 58, 58, 47})
				So(ranks, ShouldResemble, []int{1, 2, 3, 4, 5})
				So(names, ShouldResemble, []string{"A", "Kyle Schwarber", "B", "C", "D"})
			})

			Convey("And the reference slice is untouched", func() {
				So(ref[0].Rank, ShouldEqual, 0)
				So(ref, ShouldHaveLength, 4)
			})
		})

		Convey("When the tracked streak ties an existing row", func() {
			out := ranking.Rank(ref, active(58), player, now)

			Convey("Then the synthesized row sorts after the reference rows it ties", func() {
				So(out[1].Name, ShouldEqual, "B")
				So(out[2].Name, ShouldEqual, "C")
				So(out[3].Name, ShouldEqual, player.Name)
				So(out[3].Rank, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a reference set that already lists the player", t, func() {
		ref := append(reference(), model.LeaderboardEntry{Name: player.Name, Team: "PHI", Streak: 99, Seasons: "stale"})

		Convey("When ranking", func() {
			out := ranking.Rank(ref, active(61), player, now)

			Convey("Then the stale row is replaced", func() {
				count := 0
				for _, e := range out {
					if e.Name == player.Name {
						count++
						So(e.Streak, ShouldEqual, 61)
						So(e.Seasons, ShouldEqual, "2024–2025")
					}
				}
				So(count, ShouldEqual, 1)
				rank, ok := ranking.RankOf(out, player.Name)
				So(ok, ShouldBeTrue)
				So(rank, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a tracked streak of zero", t, func() {
		out := ranking.Rank(reference(), model.DefaultRecord(), player, now)

		Convey("Then the player is filtered out", func() {
			_, ok := ranking.RankOf(out, player.Name)
			So(ok, ShouldBeFalse)
			So(out, ShouldHaveLength, 5)
		})
	})

	Convey("Given reference rows without a streak", t, func() {
		ref := append(reference(), model.LeaderboardEntry{Name: "Nobody", Streak: 0})
		out := ranking.Rank(ref, active(1), player, now)
		_, ok := ranking.RankOf(out, "Nobody")
		So(ok, ShouldBeFalse)
	})
}

func TestSeasonsLabel(t *testing.T) {
	Convey("Given streak records", t, func() {
		Convey("An active streak spans start year to the current year", func() {
			So(ranking.SeasonsLabel(active(10), now), ShouldEqual, "2024–2025")
		})

		Convey("An ended streak spans its start and end dates", func() {
			rec := active(10)
			rec.Status = model.StatusEnded
			rec.EndDate = model.DatePtr(model.NewDate(2025, time.May, 2))
			So(ranking.SeasonsLabel(rec, now), ShouldEqual, "2024-09-03 to 2025-05-02")
		})
	})
}

func TestAssignFinalRank(t *testing.T) {
	Convey("Given an ended streak without a final rank", t, func() {
		rec := active(62)
		rec.Status = model.StatusEnded
		rec.EndDate = model.DatePtr(model.NewDate(2025, time.May, 2))
		entries := ranking.Rank(reference(), rec, player, now)

		Convey("When the final rank is assigned", func() {
			next, changed := ranking.AssignFinalRank(rec, entries, player.Name)

			Convey("Then it records the player's position once", func() {
				So(changed, ShouldBeTrue)
				So(*next.FinalRank, ShouldEqual, 4)
				So(rec.FinalRank, ShouldBeNil)
			})

			Convey("And a second assignment against a different ranking is ignored", func() {
				moved := ranking.Rank(append(reference(), model.LeaderboardEntry{Name: "New", Streak: 100}), next, player, now)
				again, changed := ranking.AssignFinalRank(next, moved, player.Name)
				So(changed, ShouldBeFalse)
				So(*again.FinalRank, ShouldEqual, 4)
			})
		})
	})

	Convey("Given an active streak", t, func() {
		rec := active(62)
		_, changed := ranking.AssignFinalRank(rec, ranking.Rank(reference(), rec, player, now), player.Name)
		So(changed, ShouldBeFalse)
	})
}
