package overlay

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/entrhq/unoverlay/pkg/dom"
	"github.com/entrhq/unoverlay/pkg/dom/memdom"
	"github.com/entrhq/unoverlay/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	viewportWidth  = 1280
	viewportHeight = 720
)

var fullScreen = memdom.Box{Width: viewportWidth, Height: viewportHeight}

type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) Alert(message string) {
	n.alerts = append(n.alerts, message)
}

type recordingTracer struct {
	lines []string
}

func (t *recordingTracer) Debugf(format string, v ...interface{}) {
	t.lines = append(t.lines, fmt.Sprintf(format, v...))
}

type staticMessages map[string]string

func (m staticMessages) Lookup(id string) string {
	if s, ok := m[id]; ok {
		return s
	}
	return id
}

func weightOf(n int) *int {
	return &n
}

func newRemover(notifier Notifier, opts ...Option) *Remover {
	return NewRemover(staticMessages{MessageNoOverlay: "no overlay"}, notifier, opts...)
}

// addContent puts an article with a paragraph in the centre of the page.
func addContent(doc *memdom.Document) *memdom.Node {
	main := doc.BodyNode().AppendElement("main", fullScreen, "").SetID("content")
	p := main.AppendElement("p", memdom.Box{X: 440, Y: 260, Width: 400, Height: 200}, "").SetID("story")
	p.AppendText("Once upon a time")
	return p
}

// addLayer adds a fixed full-screen layer holding n text nodes.
func addLayer(doc *memdom.Document, id string, z, n int) *memdom.Node {
	layer := doc.BodyNode().AppendElement("div", fullScreen, fmt.Sprintf("position: fixed; z-index: %d", z)).SetID(id)
	for i := 0; i < n; i++ {
		layer.AppendText("x")
	}
	return layer
}

func TestFindCentralOverlayAncestor_NoOverlay(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)

	el, ok := FindCentralOverlayAncestor(doc)
	assert.False(t, ok)
	assert.Nil(t, el)
}

func TestFindCentralOverlayAncestor_PicksOutermost(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)
	backdrop := doc.BodyNode().AppendElement("div", fullScreen, "position: fixed; z-index: 1000").SetID("backdrop")
	dialog := backdrop.AppendElement("div", memdom.Box{X: 340, Y: 160, Width: 600, Height: 400}, "position: relative; z-index: 1001").SetID("dialog")
	dialog.AppendElement("button", memdom.Box{X: 540, Y: 260, Width: 200, Height: 200}, "position: absolute; z-index: 2").SetID("close")

	el, ok := FindCentralOverlayAncestor(doc)
	require.True(t, ok)
	assert.True(t, el.IsSameNode(backdrop))
}

func TestFindCentralOverlayAncestor_NothingAtCentre(t *testing.T) {
	doc := memdom.New(0, 0)

	_, ok := FindCentralOverlayAncestor(doc)
	assert.False(t, ok)
}

// Scenario A: the centre holds plain text content.
func TestRun_NoOverlayAlertsOnce(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	story := addContent(doc)
	notifier := &recordingNotifier{}

	report := newRemover(notifier).Run(doc)

	assert.Equal(t, 1, report.Iterations)
	assert.True(t, report.Alerted)
	assert.Empty(t, report.Steps)
	assert.Equal(t, []string{"no overlay"}, notifier.alerts)
	assert.True(t, dom.IsVisible(story))
}

// Scenario B: one full-screen overlay over a scroll-locked body.
func TestRun_HidesOverlayAndReleasesScrollLock(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	doc.BodyNode().SetStyleText("overflow: hidden")
	story := addContent(doc)
	overlay := addLayer(doc, "overlay", 9999, 3)
	notifier := &recordingNotifier{}

	report := newRemover(notifier).Run(doc)

	assert.Equal(t, 2, report.Iterations)
	assert.False(t, report.Alerted)
	assert.Empty(t, notifier.alerts)
	require.Len(t, report.Steps, 1)
	assert.Equal(t, Step{Iteration: 1, Candidate: "div#overlay", Decision: DecisionHidden}, report.Steps[0])

	assert.False(t, dom.IsVisible(overlay))
	assert.True(t, dom.IsVisible(story))
	assert.Equal(t, "auto", doc.BodyNode().ComputedStyle("overflow"))
	assert.Equal(t, "visible", doc.HTML().ComputedStyle("overflow"))
	assert.Equal(t, []string{"body"}, report.RelaxedOverflow)
}

func TestRun_ReleasesScrollLockOnRootElement(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	doc.HTML().SetSheetStyle("overflow: hidden !important")
	doc.BodyNode().SetSheetStyle("overflow: hidden")
	addContent(doc)
	addLayer(doc, "overlay", 10, 1)

	report := newRemover(&recordingNotifier{}).Run(doc)

	assert.Equal(t, "auto", doc.HTML().ComputedStyle("overflow"))
	assert.Equal(t, "auto", doc.BodyNode().ComputedStyle("overflow"))
	assert.Equal(t, []string{"html", "body"}, report.RelaxedOverflow)
}

// Scenario C: a light second layer is hidden, a heavy third one is kept.
func TestRun_WeighsLaterCandidates(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)
	heavy := addLayer(doc, "heavy", 100, 250)
	light := addLayer(doc, "light", 200, 40)
	first := addLayer(doc, "first", 300, 1)

	report := newRemover(&recordingNotifier{}).Run(doc)

	assert.False(t, dom.IsVisible(first))
	assert.False(t, dom.IsVisible(light))
	assert.True(t, dom.IsVisible(heavy))

	require.GreaterOrEqual(t, len(report.Steps), 4)
	assert.Equal(t, DecisionHidden, report.Steps[0].Decision)
	assert.Nil(t, report.Steps[0].Weight)
	assert.Equal(t, Step{Iteration: 2, Candidate: "div#light", Decision: DecisionHiddenLight, Weight: weightOf(40)}, report.Steps[1])
	assert.Equal(t, Step{Iteration: 3, Candidate: "div#heavy", Decision: DecisionKeptHeavy, Weight: weightOf(250)}, report.Steps[2])
	assert.Equal(t, 4, report.Steps[3].Iteration)
	assert.Equal(t, DecisionKeptHeavy, report.Steps[3].Decision)

	// The heavy layer keeps matching until the cap.
	assert.Equal(t, MaxIterations, report.Iterations)
	assert.Equal(t, 2, report.Hidden())
	assert.Equal(t, MaxIterations-2, report.Kept())
}

func TestRun_RecordsZeroWeight(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)
	empty := addLayer(doc, "empty", 100, 0)
	addLayer(doc, "first", 300, 1)

	report := newRemover(&recordingNotifier{}).Run(doc)

	assert.False(t, dom.IsVisible(empty))
	require.Len(t, report.Steps, 2)
	assert.Equal(t, Step{Iteration: 2, Candidate: "div#empty", Decision: DecisionHiddenLight, Weight: weightOf(0)}, report.Steps[1])

	data, err := json.Marshal(report.Steps)
	require.NoError(t, err)
	assert.NotContains(t, string(data[:strings.Index(string(data), "},")]), `"weight"`)
	assert.Contains(t, string(data), `"candidate":"div#empty","decision":"hidden-light","weight":0`)
}

func TestRun_NeverExceedsMaxIterations(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)
	var layers []*memdom.Node
	for z := 1; z <= 15; z++ {
		layers = append(layers, addLayer(doc, fmt.Sprintf("layer%d", z), z, 2))
	}

	report := newRemover(&recordingNotifier{}).Run(doc)

	assert.Equal(t, MaxIterations, report.Iterations)
	assert.Equal(t, MaxIterations, report.Hidden())

	// The ten highest layers are gone, the five lowest remain.
	for i, layer := range layers {
		z := i + 1
		assert.Equal(t, z <= 5, dom.IsVisible(layer), "layer%d", z)
	}
}

func TestRun_RepeatedRunsAreIndependent(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)
	overlay := addLayer(doc, "overlay", 50, 1)
	notifier := &recordingNotifier{}
	remover := newRemover(notifier)

	first := remover.Run(doc)
	assert.False(t, first.Alerted)
	assert.False(t, dom.IsVisible(overlay))

	// The overlay stays hidden, so the second run finds nothing.
	second := remover.Run(doc)
	assert.True(t, second.Alerted)
	assert.Equal(t, 1, second.Iterations)
	assert.Len(t, notifier.alerts, 1)
	assert.False(t, dom.IsVisible(overlay))
}

func TestRun_DebugTracingDoesNotChangeDecisions(t *testing.T) {
	build := func() *memdom.Document {
		doc := memdom.New(viewportWidth, viewportHeight)
		addContent(doc)
		addLayer(doc, "heavy", 100, 250)
		addLayer(doc, "light", 200, 40)
		addLayer(doc, "first", 300, 1)
		return doc
	}

	plain := newRemover(&recordingNotifier{}).Run(build())

	tracer := &recordingTracer{}
	traced := newRemover(&recordingNotifier{}, WithDebug(tracer)).Run(build())

	assert.Equal(t, plain, traced)
	require.NotEmpty(t, tracer.lines)
	assert.True(t, strings.HasPrefix(tracer.lines[0], "pass 1: overlay found: div#first"))
	assert.Contains(t, strings.Join(tracer.lines, "\n"), "element is heavy (250), keep it: div#heavy")
}

func TestRun_WithCatalogMessage(t *testing.T) {
	assert.Equal(t, i18n.NoOverlayAlertMessage, MessageNoOverlay)

	catalog, err := i18n.New("fr")
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	doc := memdom.New(viewportWidth, viewportHeight)

	report := NewRemover(catalog, notifier).Run(doc)

	assert.True(t, report.Alerted)
	assert.Equal(t, []string{"Aucune superposition n'a été trouvée sur ce site."}, notifier.alerts)
}

func TestRun_WithoutNotifier(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)

	report := NewRemover(nil, nil).Run(doc)

	assert.True(t, report.Alerted)
	assert.Equal(t, 1, report.Iterations)
}

func TestTrigger(t *testing.T) {
	doc := memdom.New(viewportWidth, viewportHeight)
	addContent(doc)
	overlay := addLayer(doc, "overlay", 5, 1)
	notifier := &recordingNotifier{}

	run := Trigger(doc, staticMessages{}, notifier)
	run()
	assert.False(t, dom.IsVisible(overlay))
	assert.Empty(t, notifier.alerts)

	run()
	assert.Equal(t, []string{MessageNoOverlay}, notifier.alerts)
}
