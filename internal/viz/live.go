package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/trajopt/internal/store"
)

const (
	canvasWidth  = 60
	canvasHeight = 18
	// Projected link lengths for the side view; display only.
	upperLink = 1.0
	foreLink  = 0.8
)

type tickMsg time.Time

// Model plays a stored trajectory back in the terminal, drawing the arm
// in the vertical plane of the shoulder and elbow joints.
type Model struct {
	traj     *store.Trajectory
	leg      string
	head     int
	playing  bool
	interval time.Duration
	canvas   *Canvas
}

// NewModel builds a playback over tr running at fps frames per second.
func NewModel(tr *store.Trajectory, leg string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		traj:     tr,
		leg:      leg,
		playing:  true,
		interval: time.Second / time.Duration(fps),
		canvas:   NewCanvas(canvasWidth, canvasHeight),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "left", "h":
			m.playing = false
			if m.head > 0 {
				m.head--
			}
		case "right", "l":
			m.playing = false
			if m.head < len(m.traj.Times)-1 {
				m.head++
			}
		case "r":
			m.head = 0
			m.playing = true
		}
	case tickMsg:
		if m.playing {
			m.head++
			if m.head >= len(m.traj.Times) {
				m.head = 0
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	m.canvas.Clear()
	m.drawArm()

	t := m.traj.Times[m.head]
	q := m.traj.Q[m.head]
	u := m.traj.U[m.head]

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s leg  t=%.3fs  node %d/%d",
		m.leg, t, m.head+1, len(m.traj.Times))))
	b.WriteString("\n")
	b.WriteString(canvasStyle.Render(m.canvas.String()))
	b.WriteString("\n")
	for j := 0; j < 3; j++ {
		b.WriteString(labelStyle.Render(jointNames[j]))
		b.WriteString(valueStyle.Render(fmt.Sprintf("q=%7.3f rad  u=%7.3f", q[j], u[j])))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space pause · ←/→ step · r restart · q quit"))
	return b.String()
}

// drawArm projects the shoulder and elbow links onto the vertical plane.
// The base rotation only spins that plane, so it is shown as a dial in
// the corner instead.
func (m Model) drawArm() {
	q := m.traj.Q[m.head]

	px, py := canvasWidth, canvasHeight*2 // sub-pixel center
	scale := float64(canvasHeight*4) / (2.2 * (upperLink + foreLink))

	ex := float64(px) + upperLink*math.Cos(q[1])*scale
	ey := float64(py) - upperLink*math.Sin(q[1])*scale
	wx := ex + foreLink*math.Cos(q[1]+q[2])*scale
	wy := ey - foreLink*math.Sin(q[1]+q[2])*scale

	m.canvas.Line(px, py, int(ex), int(ey))
	m.canvas.Line(int(ex), int(ey), int(wx), int(wy))

	// Base dial: a short needle showing q1.
	const dial = 8
	cx, cy := dial+2, dial+2
	m.canvas.Line(cx, cy, cx+int(float64(dial)*math.Cos(q[0])), cy-int(float64(dial)*math.Sin(q[0])))
}
