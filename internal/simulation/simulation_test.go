package simulation_test

import (
	"testing"

	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/simulation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDerive(t *testing.T) {
	Convey("Given the default of 20 red particles", t, func() {
		state := simulation.Derive(20)

		Convey("Then 40% and 80% have turned blue at 10 s and 20 s", func() {
			So(state.T0, ShouldResemble, models.ParticleSnapshot{Red: 20, Blue: 0})
			So(state.T10, ShouldResemble, models.ParticleSnapshot{Red: 12, Blue: 8})
			So(state.T20, ShouldResemble, models.ParticleSnapshot{Red: 4, Blue: 16})
		})
	})

	Convey("Given an odd particle count", t, func() {
		state := simulation.Derive(7)

		Convey("Then conversions are rounded to whole particles", func() {
			// 7 * 0.4 = 2.8 and 7 * 0.8 = 5.6
			So(state.T10, ShouldResemble, models.ParticleSnapshot{Red: 4, Blue: 3})
			So(state.T20, ShouldResemble, models.ParticleSnapshot{Red: 1, Blue: 6})
		})
	})

	Convey("Given any valid initial count", t, func() {
		Convey("Then the particle total is conserved over time", func() {
			for red := simulation.MinRed; red <= simulation.MaxRed; red++ {
				state := simulation.Derive(red)
				So(state.T0.Total(), ShouldEqual, red)
				So(state.T10.Total(), ShouldEqual, red)
				So(state.T20.Total(), ShouldEqual, red)
				So(state.T10.Red, ShouldBeGreaterThanOrEqualTo, 0)
				So(state.T20.Red, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})
	})

	Convey("Given an out of range initial count", t, func() {
		Convey("Then it is clamped to the allowed range", func() {
			So(simulation.Derive(0).T0.Red, ShouldEqual, simulation.MinRed)
			So(simulation.Derive(-5).T0.Red, ShouldEqual, simulation.MinRed)
			So(simulation.Derive(100).T0.Red, ShouldEqual, simulation.MaxRed)
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp keeps values inside [4, 30]", t, func() {
		So(simulation.Clamp(3), ShouldEqual, 4)
		So(simulation.Clamp(4), ShouldEqual, 4)
		So(simulation.Clamp(17), ShouldEqual, 17)
		So(simulation.Clamp(30), ShouldEqual, 30)
		So(simulation.Clamp(31), ShouldEqual, 30)
	})
}
