package main

import (
	"fmt"

	"github.com/myrjola/reaksi/internal/layout"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/simulation"
	"github.com/myrjola/reaksi/internal/worksheet"
)

// snapshotInterval is the simulated time between two boxes.
const snapshotInterval = 10

// BaseTemplateData is embedded in the data of every full page.
type BaseTemplateData struct {
	CurrentPath string
}

type particleView struct {
	Color        string
	X            float64
	Y            float64
	Diameter     float64
	DelaySeconds float64
	Overlapping  bool
}

type boxView struct {
	Label     string
	SubLabel  string
	Seconds   int
	Red       int
	Blue      int
	Area      layout.Area
	Particles []particleView
}

type simulationView struct {
	RedInitial int
	MinRed     int
	MaxRed     int
	Boxes      []boxView
}

type formView struct {
	GroupName string
	Members   string
	Answers   models.StudentAnswers
}

type homeTemplateData struct {
	BaseTemplateData
	Worksheet  *worksheet.Content
	Simulation simulationView
	Form       formView
	Notice     string
}

type resultTemplateData struct {
	BaseTemplateData
	Pending    bool
	TaskID     string
	Submission models.Submission
}

type teacherTemplateData struct {
	BaseTemplateData
	Worksheet   *worksheet.Content
	Submissions []models.Submission
}

// simulationLayout is the JSON representation of a simulation run.
type simulationLayout struct {
	RedInitial int                    `json:"redInitial"`
	State      models.SimulationState `json:"state"`
	Area       layout.Area            `json:"area"`
	Boxes      []boxLayout            `json:"boxes"`
}

type boxLayout struct {
	Seconds   int               `json:"seconds"`
	Red       int               `json:"red"`
	Blue      int               `json:"blue"`
	Positions []layout.Position `json:"positions"`
}

// layoutSimulation derives the snapshots for redInitial and places the particles of each box. The first Red
// positions of a box are the red particles.
func (app *application) layoutSimulation(redInitial int) simulationLayout {
	red := simulation.Clamp(redInitial)
	state := simulation.Derive(red)
	area := app.worksheet.Area
	snapshots := state.Snapshots()
	boxes := make([]boxLayout, 0, len(snapshots))
	for i, snapshot := range snapshots {
		positions := layout.Generate(snapshot.Total(), area, app.rng)
		app.metrics.ObserveLayout(len(positions), layout.CountOverlapping(positions))
		boxes = append(boxes, boxLayout{
			Seconds:   i * snapshotInterval,
			Red:       snapshot.Red,
			Blue:      snapshot.Blue,
			Positions: positions,
		})
	}
	return simulationLayout{RedInitial: red, State: state, Area: area, Boxes: boxes}
}

func (app *application) simulationView(redInitial int) simulationView {
	sim := app.layoutSimulation(redInitial)
	boxes := make([]boxView, 0, len(sim.Boxes))
	for i, box := range sim.Boxes {
		particles := make([]particleView, 0, len(box.Positions))
		for j, p := range box.Positions {
			color := "blue"
			if j < box.Red {
				color = "red"
			}
			particles = append(particles, particleView{
				Color:        color,
				X:            p.X,
				Y:            p.Y,
				Diameter:     2 * sim.Area.Radius, //nolint:mnd // radius to diameter
				DelaySeconds: p.DelaySeconds,
				Overlapping:  p.Overlapping,
			})
		}
		label := fmt.Sprintf("Kotak %c", 'A'+i)
		if i < len(app.worksheet.BoxLabels) {
			label = app.worksheet.BoxLabels[i]
		}
		boxes = append(boxes, boxView{
			Label:     label,
			SubLabel:  fmt.Sprintf("(t = %d detik)", box.Seconds),
			Seconds:   box.Seconds,
			Red:       box.Red,
			Blue:      box.Blue,
			Area:      sim.Area,
			Particles: particles,
		})
	}
	return simulationView{
		RedInitial: sim.RedInitial,
		MinRed:     simulation.MinRed,
		MaxRed:     simulation.MaxRed,
		Boxes:      boxes,
	}
}
