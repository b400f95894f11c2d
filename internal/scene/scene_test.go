package scene

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

func agent(id string, x, y float64) *document.Element {
	return &document.Element{
		ID: id, Kind: document.KindAgent, X: x, Y: y,
		Agent: &document.AgentMarker{AgentRef: "scout", Side: document.SideAttack},
	}
}

func newTestScene() *Scene {
	return New(document.NewEmptyDocument("doc_test", "Test", "ascent"))
}

func ids(doc *document.Document) []string {
	out := make([]string, len(doc.Elements))
	for i, el := range doc.Elements {
		out[i] = el.ID
	}
	return out
}

func TestUndoOnFreshSceneIsNoop(t *testing.T) {
	s := newTestScene()
	before := s.Snapshot()

	if s.Undo() {
		t.Error("Undo on a fresh scene reported a change")
	}
	if s.HistoryIndex() != 0 {
		t.Errorf("history index = %d, want 0", s.HistoryIndex())
	}
	if !reflect.DeepEqual(before, s.Document()) {
		t.Error("document changed after no-op undo")
	}
	if s.Redo() {
		t.Error("Redo on a fresh scene reported a change")
	}
}

func TestAddAddUndoRedo(t *testing.T) {
	s := newTestScene()
	if err := s.AddElement(agent("a", 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddElement(agent("b", 2, 2)); err != nil {
		t.Fatal(err)
	}

	s.Undo()
	if got := ids(s.Document()); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("after undo ids = %v, want [a]", got)
	}

	s.Redo()
	if got := ids(s.Document()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("after redo ids = %v, want [a b]", got)
	}
}

func TestUndoNThenRedoNReproducesDocument(t *testing.T) {
	s := newTestScene()
	for i := 0; i < 5; i++ {
		if err := s.AddElement(agent(fmt.Sprintf("e%d", i), float64(i), 0)); err != nil {
			t.Fatal(err)
		}
	}
	x := 99.5
	if err := s.UpdateElement("e2", document.Patch{X: &x}); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveElement("e0"); err != nil {
		t.Fatal(err)
	}
	s.SetSide(document.SideDefense)

	want := s.Snapshot()
	edits := 8
	for i := 0; i < edits; i++ {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if len(s.Document().Elements) != 0 {
		t.Fatalf("expected empty document after undoing everything, got %v", ids(s.Document()))
	}
	for i := 0; i < edits; i++ {
		if !s.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if !reflect.DeepEqual(want, s.Document()) {
		t.Errorf("redo did not reproduce the document\n got %+v\nwant %+v", s.Document(), want)
	}
}

func TestPushTruncatesRedoTail(t *testing.T) {
	s := newTestScene()
	_ = s.AddElement(agent("a", 0, 0))
	_ = s.AddElement(agent("b", 0, 0))
	s.Undo()
	_ = s.AddElement(agent("c", 0, 0))

	if s.CanRedo() {
		t.Error("redo tail should be dropped by a new edit")
	}
	if got := ids(s.Document()); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("ids = %v, want [a c]", got)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	s := newTestScene()
	for i := 0; i < MaxHistory+20; i++ {
		_ = s.AddElement(agent(fmt.Sprintf("e%d", i), 0, 0))
	}
	if s.HistoryLen() != MaxHistory {
		t.Fatalf("history len = %d, want %d", s.HistoryLen(), MaxHistory)
	}
	if s.HistoryIndex() != MaxHistory-1 {
		t.Errorf("index = %d, want %d", s.HistoryIndex(), MaxHistory-1)
	}
	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != MaxHistory-1 {
		t.Errorf("undos = %d, want %d", undos, MaxHistory-1)
	}
	// the oldest surviving snapshot already holds the first 21 elements
	if n := len(s.Document().Elements); n != 21 {
		t.Errorf("oldest snapshot has %d elements, want 21", n)
	}
}

func TestSnapshotsAreIsolatedFromLiveDocument(t *testing.T) {
	s := newTestScene()
	_ = s.AddElement(agent("a", 1, 1))

	// mutating the live document directly must not leak into history
	s.Document().Elements[0].X = 500
	_ = s.AddElement(agent("b", 0, 0))
	s.Undo()
	s.Undo()
	s.Redo()
	if x := s.Document().Elements[0].X; x != 1 {
		t.Errorf("X = %v, want snapshot value 1", x)
	}
}

func TestUpdateUnknownElement(t *testing.T) {
	s := newTestScene()
	err := s.UpdateElement("missing", document.Patch{})
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
	if s.HistoryLen() != 1 {
		t.Error("failed update must not push history")
	}
	if err := s.RemoveElement("missing"); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
}

func TestAddDuplicateID(t *testing.T) {
	s := newTestScene()
	_ = s.AddElement(agent("a", 0, 0))
	if err := s.AddElement(agent("a", 5, 5)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
}

func TestRemoveElementsIsOneHistoryEntry(t *testing.T) {
	s := newTestScene()
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = s.AddElement(agent(id, 0, 0))
	}
	before := s.HistoryLen()
	if n := s.RemoveElements([]string{"b", "d", "zzz"}); n != 2 {
		t.Fatalf("removed %d, want 2", n)
	}
	if s.HistoryLen() != before+1 {
		t.Errorf("history grew by %d, want 1", s.HistoryLen()-before)
	}
	s.Undo()
	if got := ids(s.Document()); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("after undo ids = %v", got)
	}
	if n := s.RemoveElements([]string{"zzz"}); n != 0 {
		t.Errorf("removed %d, want 0", n)
	}
}

func TestLoadResetsHistory(t *testing.T) {
	s := newTestScene()
	_ = s.AddElement(agent("a", 0, 0))
	_ = s.AddElement(agent("b", 0, 0))

	other := document.NewEmptyDocument("doc_other", "Other", "bind")
	other.Elements = append(other.Elements, agent("z", 3, 3))
	s.Load(other)

	if s.HistoryLen() != 1 || s.HistoryIndex() != 0 {
		t.Errorf("history len/index = %d/%d, want 1/0", s.HistoryLen(), s.HistoryIndex())
	}
	if s.CanUndo() {
		t.Error("undo should be unavailable after load")
	}
	other.Elements[0].X = 1000
	if s.Document().Elements[0].X != 3 {
		t.Error("scene aliases the loaded document")
	}
}

func TestListenersFireOncePerMutation(t *testing.T) {
	s := newTestScene()
	var kinds []ChangeKind
	unsubscribe := s.Subscribe(func(kind ChangeKind, _ *document.Document) {
		kinds = append(kinds, kind)
	})

	_ = s.AddElement(agent("a", 0, 0))
	s.Clear()
	s.Undo()
	s.Undo()
	s.Undo() // already at index 0: no notification

	want := []ChangeKind{ChangeAdd, ChangeClear, ChangeUndo, ChangeUndo}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}

	unsubscribe()
	_ = s.AddElement(agent("b", 0, 0))
	if len(kinds) != len(want) {
		t.Error("listener fired after unsubscribe")
	}
}
