package streak_test

import (
	"testing"
	"time"

	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/internal/domain/streak"
	. "github.com/smartystreets/goconvey/convey"
)

var opening = model.NewDate(2025, time.April, 30)

// games builds a most-recent-first sequence; true means the player reached base.
// The first element is dated opening and each next one a day earlier.
func games(reached ...bool) []model.GameOutcome {
	out := make([]model.GameOutcome, len(reached))
	for i, r := range reached {
		g := model.GameOutcome{
			GamePK:           1000 - i,
			Date:             model.Date{Time: opening.AddDate(0, 0, -i)},
			Season:           2025,
			Opponent:         "Miami Marlins",
			PlateAppearances: 4,
			ReachedBase:      r,
		}
		if r {
			g.Hits = 1
		}
		out[i] = g
	}
	return out
}

func repeat(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func activeRecord(n int, window []model.GameOutcome) model.StreakRecord {
	return model.StreakRecord{
		Status:    model.StatusActive,
		Streak:    n,
		StartDate: model.DatePtr(window[n-1].Date),
		Games:     append([]model.GameOutcome{}, window[:n]...),
	}
}

func TestCalculate(t *testing.T) {
	Convey("Given outcome sequences", t, func() {
		Convey("An empty sequence has no streak", func() {
			So(streak.Calculate(nil), ShouldEqual, 0)
		})

		Convey("A sequence led by a miss has no streak", func() {
			So(streak.Calculate(games(false, true, true)), ShouldEqual, 0)
		})

		Convey("A sequence where every game reached base counts them all", func() {
			seq := games(repeat(true, 12)...)
			So(streak.Calculate(seq), ShouldEqual, len(seq))
		})

		Convey("Counting stops at the first miss", func() {
			So(streak.Calculate(games(true, true, true, false, true, true)), ShouldEqual, 3)
		})

		Convey("The result always lies within the input length", func() {
			for mask := 0; mask < 1<<6; mask++ {
				flags := make([]bool, 6)
				for i := range flags {
					flags[i] = mask&(1<<i) != 0
				}
				n := streak.Calculate(games(flags...))
				So(n, ShouldBeGreaterThanOrEqualTo, 0)
				So(n, ShouldBeLessThanOrEqualTo, 6)
			}
		})
	})
}

func TestTransitionExtend(t *testing.T) {
	Convey("Given a stored active streak of 5", t, func() {
		seq := games(append(repeat(true, 8), false, true)...)
		stored := activeRecord(5, seq[3:])

		Convey("When the computed streak is 8", func() {
			next, change := streak.Transition(stored, seq, streak.Options{})

			Convey("Then the record is extended to the new window", func() {
				So(change, ShouldEqual, streak.ChangeExtended)
				So(next.Status, ShouldEqual, model.StatusActive)
				So(next.Streak, ShouldEqual, 8)
				So(*next.StartDate, ShouldResemble, seq[7].Date)
				So(next.Games, ShouldHaveLength, 8)
				So(next.Games[0], ShouldResemble, seq[0])
				So(next.EndDate, ShouldBeNil)
				So(next.FinalRank, ShouldBeNil)
			})

			Convey("And the stored record is not modified", func() {
				So(stored.Streak, ShouldEqual, 5)
				So(stored.Games, ShouldHaveLength, 5)
			})
		})
	})

	Convey("Given no persisted streak", t, func() {
		stored := model.DefaultRecord()

		Convey("When the first run computes a streak of 3", func() {
			seq := games(true, true, true, false)
			next, change := streak.Transition(stored, seq, streak.Options{EndOnZero: true})

			Convey("Then the streak starts at the third most recent game", func() {
				So(change, ShouldEqual, streak.ChangeExtended)
				So(next.Streak, ShouldEqual, 3)
				So(next.StartDate.String(), ShouldEqual, "2025-04-28")
			})
		})
	})

	Convey("Given an ended streak of 10 with a final rank", t, func() {
		rank := 12
		seq := games(repeat(true, 11)...)
		stored := activeRecord(10, games(repeat(true, 10)...))
		stored.Status = model.StatusEnded
		stored.EndDate = model.DatePtr(opening)
		stored.FinalRank = &rank

		Convey("When a new streak overtakes it", func() {
			next, change := streak.Transition(stored, seq, streak.Options{})

			Convey("Then tracking restarts as active without the old rank", func() {
				So(change, ShouldEqual, streak.ChangeExtended)
				So(next.Status, ShouldEqual, model.StatusActive)
				So(next.Streak, ShouldEqual, 11)
				So(next.EndDate, ShouldBeNil)
				So(next.FinalRank, ShouldBeNil)
			})
		})

		Convey("When the new streak is shorter", func() {
			next, change := streak.Transition(stored, games(true, true, false), streak.Options{EndOnZero: true})

			Convey("Then the ended record is kept as is", func() {
				So(change, ShouldEqual, streak.ChangeNone)
				So(next, ShouldResemble, stored)
			})
		})
	})
}

func TestTransitionEnd(t *testing.T) {
	Convey("Given a stored active streak of 10", t, func() {
		prior := games(repeat(true, 10)...)
		stored := activeRecord(10, prior)

		Convey("When the computed streak drops to 3", func() {
			seq := games(append(append(repeat(true, 3), false), repeat(true, 10)...)...)
			next, change := streak.Transition(stored, seq, streak.Options{})

			Convey("Then the streak ends at the most recent game", func() {
				So(change, ShouldEqual, streak.ChangeEnded)
				So(next.Status, ShouldEqual, model.StatusEnded)
				So(next.Streak, ShouldEqual, 10)
				So(*next.EndDate, ShouldResemble, seq[0].Date)
				So(*next.StartDate, ShouldResemble, *stored.StartDate)
				So(next.Games, ShouldHaveLength, 10)
				So(next.Games, ShouldResemble, seq[:10])
				So(next.FinalRank, ShouldBeNil)
			})

			Convey("And the stored record keeps its own state", func() {
				So(stored.Status, ShouldEqual, model.StatusActive)
				So(stored.EndDate, ShouldBeNil)
			})
		})

		Convey("When the most recent game breaks the streak", func() {
			seq := games(append([]bool{false}, repeat(true, 10)...)...)

			Convey("Then it ends if computed zero is allowed to end streaks", func() {
				next, change := streak.Transition(stored, seq, streak.Options{EndOnZero: true})
				So(change, ShouldEqual, streak.ChangeEnded)
				So(next.EndDate.String(), ShouldEqual, "2025-04-30")
				So(next.Games, ShouldHaveLength, 10)
			})

			Convey("And it stays active under the guarded policy", func() {
				next, change := streak.Transition(stored, seq, streak.Options{EndOnZero: false})
				So(change, ShouldEqual, streak.ChangeNone)
				So(next, ShouldResemble, stored)
			})
		})

		Convey("When the feed returned nothing", func() {
			next, change := streak.Transition(stored, nil, streak.Options{EndOnZero: true})

			Convey("Then nothing changes", func() {
				So(change, ShouldEqual, streak.ChangeNone)
				So(next, ShouldResemble, stored)
			})
		})

		Convey("When fewer games are available than the stored streak", func() {
			seq := games(true, false, true)
			next, change := streak.Transition(stored, seq, streak.Options{})

			Convey("Then the snapshot holds what is available", func() {
				So(change, ShouldEqual, streak.ChangeEnded)
				So(next.Games, ShouldHaveLength, 3)
			})
		})
	})
}

func TestTransitionIdempotent(t *testing.T) {
	Convey("Given a record produced by a transition", t, func() {
		seq := games(append(repeat(true, 6), false)...)
		first, change := streak.Transition(model.DefaultRecord(), seq, streak.Options{EndOnZero: true})
		So(change, ShouldEqual, streak.ChangeExtended)

		Convey("When the same data is processed again", func() {
			second, change := streak.Transition(first, seq, streak.Options{EndOnZero: true})

			Convey("Then it is a no-op", func() {
				So(change, ShouldEqual, streak.ChangeNone)
				So(second, ShouldResemble, first)
			})
		})
	})
}
