package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Ilovko/r6s/internal/domain"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEditor(opts ...Option) *Editor {
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(append(base, opts...)...)
}

func pt(x, y float64) domain.Position { return domain.Position{X: x, Y: y} }

func click(e *Editor, p domain.Position) Outcome {
	out := e.PointerDown(p)
	if up := e.PointerUp(p); up.Kind != OutcomeNone {
		return up
	}
	return out
}

func TestBarrierDrawCommitsOnlyOnPointerUp(t *testing.T) {
	e := newTestEditor()
	e.SelectTool(domain.ToolBarrier)

	if out := e.PointerDown(pt(10, 10)); out.Kind != OutcomeDrawStarted {
		t.Fatalf("pointer down: got %v", out.Kind)
	}
	if out := e.PointerMove(pt(10, 50)); out.Kind != OutcomePreview {
		t.Fatalf("pointer move: got %v", out.Kind)
	}
	if !e.Board().Empty() {
		t.Fatalf("board must stay empty while drawing")
	}
	if e.CanUndo() {
		t.Fatalf("preview must not be recorded")
	}
	preview, ok := e.Preview()
	if !ok || preview.End != pt(10, 50) {
		t.Fatalf("unexpected preview: %+v %v", preview, ok)
	}

	out := e.PointerUp(pt(50, 50))
	if out.Kind != OutcomeCreated || out.Category != domain.LayerBarriers {
		t.Fatalf("pointer up: got %+v", out)
	}
	b := e.Board()
	if len(b.Barriers) != 1 || b.Count() != 1 {
		t.Fatalf("expected exactly one barrier, got %+v", b)
	}
	if b.Barriers[0].Start != pt(10, 10) || b.Barriers[0].End != pt(50, 50) {
		t.Fatalf("unexpected corners: %+v", b.Barriers[0])
	}
	if _, ok := e.Preview(); ok {
		t.Fatalf("preview should end with the gesture")
	}
}

func TestUnitLabelsStayStableAfterRemoval(t *testing.T) {
	e := newTestEditor()

	first := click(e, pt(100, 100))
	second := click(e, pt(200, 200))
	if first.Kind != OutcomeCreated || second.Kind != OutcomeCreated {
		t.Fatalf("expected two placements, got %v and %v", first.Kind, second.Kind)
	}
	u1, _ := e.model.Unit(first.ID)
	u2, _ := e.model.Unit(second.ID)
	if u1.Label == u2.Label {
		t.Fatalf("labels must differ: %q", u1.Label)
	}
	if u1.Label != "T1" || u2.Label != "T2" {
		t.Fatalf("unexpected labels %q %q", u1.Label, u2.Label)
	}

	e.SelectTool(domain.ToolErase)
	if out := e.PointerDown(pt(100, 100)); out.Kind != OutcomeErased || out.ID != first.ID {
		t.Fatalf("erase: got %+v", out)
	}
	u2, _ = e.model.Unit(second.ID)
	if u2.Label != "T2" {
		t.Fatalf("label changed after removal: %q", u2.Label)
	}

	e.SelectTool(domain.ToolUnit)
	third := click(e, pt(300, 300))
	u3, _ := e.model.Unit(third.ID)
	if u3.Label != "T3" {
		t.Fatalf("new label should continue after the highest, got %q", u3.Label)
	}
}

func TestLabelsArePerSideAndFloor(t *testing.T) {
	e := newTestEditor()
	click(e, pt(100, 100))
	if err := e.SelectSide(domain.SideDefense); err != nil {
		t.Fatalf("select side: %v", err)
	}
	ct := click(e, pt(200, 100))
	e.SetFloor(domain.FloorUpper)
	_ = e.SelectSide(domain.SideAttack)
	upper := click(e, pt(100, 100))

	if u, _ := e.model.Unit(ct.ID); u.Label != "CT1" || u.Operator != "Smoke" {
		t.Fatalf("unexpected defense unit %+v", u)
	}
	if u, _ := e.model.Unit(upper.ID); u.Label != "T1" || u.Floor != domain.FloorUpper {
		t.Fatalf("unexpected upper unit %+v", u)
	}
}

func TestFloorFiltering(t *testing.T) {
	e := newTestEditor()
	click(e, pt(100, 100))

	if !e.SetFloor(domain.FloorUpper) {
		t.Fatalf("dust2 has an upper floor")
	}
	if n := e.Frame().Board.Count(); n != 0 {
		t.Fatalf("ground unit visible on upper floor: %d", n)
	}
	e.SelectTool(domain.ToolErase)
	if out := e.PointerDown(pt(100, 100)); out.Kind != OutcomeNone {
		t.Fatalf("ground unit must not be hit from upper floor, got %v", out.Kind)
	}
	e.SetFloor(domain.FloorGround)
	if n := len(e.Frame().Board.Units); n != 1 {
		t.Fatalf("unit should reappear, got %d", n)
	}
	if e.SetFloor(domain.FloorBasement) {
		t.Fatalf("dust2 has no basement")
	}
	if e.State().Floor != domain.FloorGround {
		t.Fatalf("unavailable floor must be ignored")
	}
}

func TestMapChange(t *testing.T) {
	e := newTestEditor()
	e.SetFloor(domain.FloorUpper)

	needs, err := e.RequestMapChange("cache")
	if err != nil || needs {
		t.Fatalf("empty board should switch at once: %v %v", needs, err)
	}
	if s := e.State(); s.Map != "cache" || s.Floor != domain.FloorGround {
		t.Fatalf("unexpected state after switch: %s %s", s.Map, s.Floor)
	}

	click(e, pt(100, 100))
	e.SelectTool(domain.ToolBarrier)
	e.PointerDown(pt(0, 0))
	e.PointerUp(pt(20, 20))

	needs, err = e.RequestMapChange("overpass")
	if err != nil || !needs {
		t.Fatalf("non-empty board must ask for confirmation: %v %v", needs, err)
	}
	if e.State().Map != "cache" || e.Board().Count() != 2 {
		t.Fatalf("request alone must not change anything")
	}
	if err := e.ConfirmMapChange("overpass"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !e.Board().Empty() || e.State().Map != "overpass" {
		t.Fatalf("confirm must clear every collection")
	}
	if !e.Undo() || e.Board().Count() != 2 {
		t.Fatalf("clearing by map change should be undoable")
	}

	if _, err := e.RequestMapChange("nuke"); !errors.Is(err, domain.ErrUnknownMap) {
		t.Fatalf("expected unknown map, got %v", err)
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	e := newTestEditor()
	created := click(e, pt(100, 100))
	e.SelectTool(domain.ToolMove)

	if out := e.PointerDown(pt(105, 103)); out.Kind != OutcomeDragStarted {
		t.Fatalf("drag start: %v", out.Kind)
	}
	if out := e.PointerMove(pt(205, 203)); out.Kind != OutcomeMoved {
		t.Fatalf("drag move: %v", out.Kind)
	}
	if u, _ := e.model.Unit(created.ID); u.Position != pt(200, 200) {
		t.Fatalf("unit jumped: %+v", u.Position)
	}
	before := e.history.Len()
	e.PointerUp(pt(205, 203))
	if e.history.Len() != before+1 {
		t.Fatalf("completed drag must record once")
	}
	e.Undo()
	if u, _ := e.model.Unit(created.ID); u.Position != pt(100, 100) {
		t.Fatalf("undo should restore the pre-drag position, got %+v", u.Position)
	}
}

func TestDragTranslatesBarrier(t *testing.T) {
	e := newTestEditor()
	e.SelectTool(domain.ToolBarrier)
	e.PointerDown(pt(10, 10))
	e.PointerUp(pt(50, 30))

	e.SelectTool(domain.ToolMove)
	e.PointerDown(pt(20, 20))
	e.PointerMove(pt(120, 70))
	e.PointerUp(pt(120, 70))

	w := e.Board().Barriers[0]
	if w.Start != pt(110, 60) || w.End != pt(150, 80) {
		t.Fatalf("barrier should move by (100,50): %+v", w)
	}
}

func TestClickWithoutMoveRecordsNothing(t *testing.T) {
	e := newTestEditor()
	click(e, pt(100, 100))
	e.SelectTool(domain.ToolMove)
	before := e.history.Len()
	click(e, pt(100, 100))
	if e.history.Len() != before {
		t.Fatalf("grab and release without moving must not record")
	}
}

func TestLockedAndHiddenLayersRefuseMutation(t *testing.T) {
	e := newTestEditor()
	created := click(e, pt(100, 100))

	e.ToggleLayerLocked(domain.LayerUnits)
	if out := click(e, pt(300, 300)); out.Kind != OutcomeRejected {
		t.Fatalf("placing on a locked layer: got %v", out.Kind)
	}
	e.SelectTool(domain.ToolMove)
	if out := e.PointerDown(pt(100, 100)); out.Kind != OutcomeRejected || out.ID != created.ID {
		t.Fatalf("dragging a locked unit: got %+v", out)
	}
	e.PointerMove(pt(200, 200))
	e.PointerUp(pt(200, 200))
	e.SelectTool(domain.ToolErase)
	e.PointerDown(pt(100, 100))
	if b := e.Board(); len(b.Units) != 1 || b.Units[0].Position != pt(100, 100) {
		t.Fatalf("locked unit changed: %+v", b.Units)
	}
	if got := Opacity(e.State().Layers, domain.LayerUnits); got != 0.6 {
		t.Fatalf("locked opacity %v", got)
	}

	e.ToggleLayerLocked(domain.LayerUnits)
	e.ToggleLayerVisible(domain.LayerUnits)
	if out := e.PointerDown(pt(100, 100)); out.Kind != OutcomeNone {
		t.Fatalf("hidden units must not be hit, got %v", out.Kind)
	}
	if len(e.Frame().Board.Units) != 0 {
		t.Fatalf("hidden units must not be framed")
	}
}

func TestLockDuringDragStopsMovement(t *testing.T) {
	e := newTestEditor()
	created := click(e, pt(100, 100))
	e.SelectTool(domain.ToolMove)
	e.PointerDown(pt(100, 100))
	e.ToggleLayerLocked(domain.LayerUnits)
	if out := e.PointerMove(pt(150, 150)); out.Kind != OutcomeRejected {
		t.Fatalf("expected rejection, got %v", out.Kind)
	}
	if u, _ := e.model.Unit(created.ID); u.Position != pt(100, 100) {
		t.Fatalf("unit moved while locked")
	}
}

func TestSwitchingToolDiscardsProvisionalShape(t *testing.T) {
	e := newTestEditor()
	e.SelectTool(domain.ToolMarkRed)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(40, 40))
	e.SelectTool(domain.ToolMove)
	if out := e.PointerUp(pt(80, 80)); out.Kind != OutcomeNone {
		t.Fatalf("pointer up after switch: got %v", out.Kind)
	}
	if !e.Board().Empty() || e.CanUndo() {
		t.Fatalf("provisional mark must be discarded")
	}
}

func TestEraseRemovesOnlyTheHitBarrier(t *testing.T) {
	e := newTestEditor()
	e.SelectTool(domain.ToolBarrier)
	for _, corners := range [][2]domain.Position{{pt(0, 0), pt(20, 20)}, {pt(100, 100), pt(120, 120)}, {pt(200, 0), pt(220, 20)}} {
		e.PointerDown(corners[0])
		e.PointerUp(corners[1])
	}
	e.SelectTool(domain.ToolErase)
	if out := e.PointerDown(pt(110, 110)); out.Kind != OutcomeErased {
		t.Fatalf("erase: got %v", out.Kind)
	}
	b := e.Board()
	if len(b.Barriers) != 2 {
		t.Fatalf("expected two barriers left, got %d", len(b.Barriers))
	}
	for _, w := range b.Barriers {
		if w.Start == pt(100, 100) {
			t.Fatalf("wrong barrier removed")
		}
	}
}

func TestMarksDoNotBlockPointerDown(t *testing.T) {
	e := newTestEditor()
	e.SelectTool(domain.ToolMarkBlue)
	e.PointerDown(pt(0, 0))
	e.PointerUp(pt(100, 0))

	e.SelectTool(domain.ToolUnit)
	if out := click(e, pt(50, 0)); out.Kind != OutcomeCreated || out.Category != domain.LayerUnits {
		t.Fatalf("unit tool over a mark should place a unit, got %+v", out)
	}
	e.SelectTool(domain.ToolErase)
	if out := e.PointerDown(pt(80, 3)); out.Kind != OutcomeErased || out.Category != domain.LayerMarks {
		t.Fatalf("erase should remove the mark, got %+v", out)
	}
}

func TestPanIsViewOnly(t *testing.T) {
	e := newTestEditor()
	click(e, pt(100, 100))
	e.SelectTool(domain.ToolPan)
	before := e.history.Len()

	e.PointerDown(pt(10, 10))
	e.PointerMove(pt(30, 50))
	e.PointerUp(pt(30, 50))
	if got := e.State().Viewport.Pan; got != pt(20, 40) {
		t.Fatalf("pan: got %+v", got)
	}
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(5, 5))
	e.PointerUp(pt(5, 5))
	if got := e.State().Viewport.Pan; got != pt(25, 45) {
		t.Fatalf("second pan: got %+v", got)
	}
	if e.history.Len() != before {
		t.Fatalf("pan must not record history")
	}
}

func TestPlacementUsesModelCoordinates(t *testing.T) {
	e := newTestEditor()
	e.ZoomIn()
	out := click(e, pt(120, 120))
	u, _ := e.model.Unit(out.ID)
	if u.Position.X < 99.999 || u.Position.X > 100.001 {
		t.Fatalf("expected model x=100, got %v", u.Position.X)
	}
}

func TestRoleChange(t *testing.T) {
	e := newTestEditor()
	created := click(e, pt(100, 100))

	out := e.PointerDown(pt(102, 98))
	e.PointerUp(pt(102, 98))
	if out.Kind != OutcomeRoleChangeRequested || out.ID != created.ID {
		t.Fatalf("expected role change request, got %+v", out)
	}
	if e.Board().Count() != 1 {
		t.Fatalf("clicking a unit must not place another")
	}
	if err := e.ChangeRole(created.ID, "Thermite"); err != nil {
		t.Fatalf("change role: %v", err)
	}
	if u, _ := e.model.Unit(created.ID); u.Operator != "Thermite" {
		t.Fatalf("operator not changed: %q", u.Operator)
	}
	if err := e.ChangeRole(created.ID, "Smoke"); !errors.Is(err, domain.ErrUnknownOperator) {
		t.Fatalf("defense operator on attack unit: %v", err)
	}
	if err := e.ChangeRole("missing", "Ash"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing unit: %v", err)
	}
	e.Undo()
	if u, _ := e.model.Unit(created.ID); u.Operator != domain.DefaultOperator {
		t.Fatalf("role change should be undoable, got %q", u.Operator)
	}
}

func TestSelectRolePicksFirstOperator(t *testing.T) {
	e := newTestEditor()
	if err := e.SelectRole(domain.SideDefense, domain.RoleRoamer); err != nil {
		t.Fatalf("select role: %v", err)
	}
	if s := e.State(); s.Side != domain.SideDefense || s.Operator != "Jäger" {
		t.Fatalf("unexpected selection %s %s", s.Side, s.Operator)
	}
	if err := e.SelectRole(domain.SideAttack, domain.RoleAnchor); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("anchor is a defense role: %v", err)
	}
}

func TestPointerUpWithoutDownIsIgnored(t *testing.T) {
	e := newTestEditor()
	for _, tool := range domain.Tools() {
		e.SelectTool(tool)
		if out := e.PointerUp(pt(10, 10)); out.Kind != OutcomeNone {
			t.Fatalf("%s: got %v", tool, out.Kind)
		}
		if out := e.PointerMove(pt(10, 10)); out.Kind != OutcomeNone {
			t.Fatalf("%s move: got %v", tool, out.Kind)
		}
	}
	if !e.Board().Empty() {
		t.Fatalf("stray events changed the board")
	}
}

func TestCalloutToolsPlaceTheirKind(t *testing.T) {
	e := newTestEditor()
	tools := []domain.Tool{domain.ToolCalloutDanger, domain.ToolCalloutWatch, domain.ToolCalloutObjective}
	for i, tool := range tools {
		e.SelectTool(tool)
		click(e, pt(float64(100*(i+1)), 100))
	}
	b := e.Board()
	if len(b.Callouts) != 3 {
		t.Fatalf("expected three callouts, got %d", len(b.Callouts))
	}
	want := []domain.CalloutKind{domain.CalloutDanger, domain.CalloutWatch, domain.CalloutObjective}
	for i, c := range b.Callouts {
		if c.Kind != want[i] {
			t.Fatalf("callout %d kind %q", i, c.Kind)
		}
	}
}

func TestClearIsUndoable(t *testing.T) {
	e := newTestEditor()
	click(e, pt(100, 100))
	click(e, pt(200, 100))
	e.Clear()
	if !e.Board().Empty() {
		t.Fatalf("clear left entities")
	}
	e.Undo()
	if e.Board().Count() != 2 {
		t.Fatalf("undo after clear should restore both units")
	}
}

func TestDefaultName(t *testing.T) {
	e := newTestEditor(WithPreferences(Preferences{Language: domain.LanguageEnglish, Theme: domain.ThemeDark}))
	if got := e.DefaultName("2026-01-02"); got != "Dust2-Ground Floor-2026-01-02" {
		t.Fatalf("unexpected name %q", got)
	}
}
