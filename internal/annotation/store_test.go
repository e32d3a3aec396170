package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"stylemark/pkg/geometry"
)

func TestStoreStartsClean(t *testing.T) {
	s := NewStore(nil)
	assert.False(t, s.IsDirty())
	assert.False(t, s.CanUndo())
	assert.True(t, s.Current().IsEmpty())
}

func TestStoreSeededFromInitial(t *testing.T) {
	initial := sampleSet()
	s := NewStore(initial)

	assert.Equal(t, initial.Count(), s.Current().Count())
	assert.False(t, s.IsDirty(), "seeding is not a mutation")

	// The store owns a clone: mutating the seed must not leak in.
	initial.Texts[0].Content = "changed"
	assert.Equal(t, "fix hem", s.Current().Texts[0].Content)
}

func TestAddAssignsID(t *testing.T) {
	s := NewStore(nil)

	id := s.AddText(Text{Content: "x", Anchor: geometry.Point2D{X: 1, Y: 1}})
	require.NotEmpty(t, id)
	assert.Equal(t, id, s.Current().Texts[0].ID)
	assert.True(t, s.IsDirty())
	assert.Equal(t, 1, s.HistoryDepth())

	id2 := s.AddText(Text{Content: "y"})
	assert.NotEqual(t, id, id2)
}

func TestUndoIsExactInverse(t *testing.T) {
	s := NewStore(sampleSet())
	before := s.Snapshot()

	s.AddIcon(Icon{Kind: IconCross, Anchor: geometry.Point2D{X: 9, Y: 9}})
	require.NotEqual(t, before.Count(), s.Current().Count())

	require.True(t, s.Undo())
	assert.Equal(t, before, s.Snapshot())
}

func TestUndoEmptyIsNoOp(t *testing.T) {
	s := NewStore(nil)
	assert.False(t, s.Undo())
	assert.False(t, s.IsDirty(), "failed undo must not dirty the store")
}

func TestUndoRestoresWholesale(t *testing.T) {
	s := NewStore(nil)
	s.AddText(Text{Content: "a", Anchor: geometry.Point2D{X: 0, Y: 0}})
	s.AddRect(Rect{Start: geometry.Point2D{X: 1, Y: 1}, End: geometry.Point2D{X: 2, Y: 2}})
	s.ClearAll()

	assert.True(t, s.Current().IsEmpty())

	// One undo brings back everything the clear removed.
	require.True(t, s.Undo())
	assert.Len(t, s.Current().Texts, 1)
	assert.Len(t, s.Current().Rects, 1)
}

func TestHistoryCap(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < maxHistory+20; i++ {
		s.AddIcon(Icon{Kind: IconTick, Anchor: geometry.Point2D{X: float64(i), Y: 0}})
	}

	assert.Equal(t, maxHistory, s.HistoryDepth())

	// Undo all the way down: the earliest states were evicted, so the
	// oldest restorable state still has 20 icons.
	for s.CanUndo() {
		s.Undo()
	}
	assert.Len(t, s.Current().Icons, 20)
}

func TestTranslateRecordsNoHistory(t *testing.T) {
	s := NewStore(nil)
	id := s.AddIcon(Icon{Kind: IconTick, Anchor: geometry.Point2D{X: 10, Y: 10}})
	depth := s.HistoryDepth()

	require.True(t, s.Translate(KindIcon, id, geometry.Point2D{X: 5, Y: -3}))
	assert.Equal(t, depth, s.HistoryDepth(), "translate shares the drag-start snapshot")
	assert.Equal(t, geometry.Point2D{X: 15, Y: 7}, s.Current().Icons[0].Anchor)
}

func TestTranslateUnknownID(t *testing.T) {
	s := NewStore(sampleSet())
	s.MarkSaved()

	assert.False(t, s.Translate(KindIcon, "nope", geometry.Point2D{X: 1, Y: 1}))
	assert.False(t, s.IsDirty(), "failed translate must not dirty the store")
}

func TestTranslatePathMovesAllPoints(t *testing.T) {
	s := NewStore(nil)
	id := s.AddPath(Path{Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 10}}, Color: "#e63946"})

	require.True(t, s.Translate(KindPath, id, geometry.Point2D{X: 2, Y: 3}))
	pts := s.Current().Paths[0].Points
	assert.Equal(t, geometry.Point2D{X: 2, Y: 3}, pts[0])
	assert.Equal(t, geometry.Point2D{X: 12, Y: 13}, pts[1])
}

func TestRemoveUnknownID(t *testing.T) {
	s := NewStore(sampleSet())
	depth := s.HistoryDepth()

	assert.False(t, s.Remove(KindText, "nope"))
	assert.Equal(t, depth, s.HistoryDepth(), "failed remove must not push history")
}

func TestRemoveIsUndoable(t *testing.T) {
	s := NewStore(sampleSet())

	require.True(t, s.Remove(KindText, "t1"))
	assert.Empty(t, s.Current().Texts)

	require.True(t, s.Undo())
	assert.Len(t, s.Current().Texts, 1)
}

func TestRemoveFirstAtRemovesOne(t *testing.T) {
	s := NewStore(nil)
	// Two icons stacked on the same spot.
	s.AddIcon(Icon{Kind: IconTick, Anchor: geometry.Point2D{X: 50, Y: 50}})
	s.AddIcon(Icon{Kind: IconCross, Anchor: geometry.Point2D{X: 50, Y: 50}})

	kind, _, ok := s.RemoveFirstAt(geometry.Point2D{X: 50, Y: 50})
	require.True(t, ok)
	assert.Equal(t, KindIcon, kind)
	assert.Len(t, s.Current().Icons, 1, "one tap removes one annotation")
}

func TestRemoveFirstAtMiss(t *testing.T) {
	s := NewStore(nil)
	depth := s.HistoryDepth()

	_, _, ok := s.RemoveFirstAt(geometry.Point2D{X: 999, Y: 999})
	assert.False(t, ok)
	assert.Equal(t, depth, s.HistoryDepth())
}

func TestClearAllPreservesThumbnail(t *testing.T) {
	initial := sampleSet()
	initial.Thumbnail = "old.png"
	s := NewStore(initial)

	s.ClearAll()
	assert.True(t, s.Current().IsEmpty())
	assert.Equal(t, "old.png", s.Current().Thumbnail)
}

func TestDirtyLifecycle(t *testing.T) {
	s := NewStore(nil)

	var dirtyEvents int
	s.On(EventDirty, func() { dirtyEvents++ })

	s.AddText(Text{Content: "x"})
	assert.True(t, s.IsDirty())

	s.MarkSaved()
	assert.False(t, s.IsDirty())

	require.True(t, s.Undo())
	assert.True(t, s.IsDirty(), "undo after save dirties again")
	assert.GreaterOrEqual(t, dirtyEvents, 3)
}

func TestEventsFire(t *testing.T) {
	s := NewStore(nil)

	var changed, history int
	s.On(EventChanged, func() { changed++ })
	s.On(EventHistory, func() { history++ })

	s.AddIcon(Icon{Kind: IconTick})
	s.PushSnapshot()
	s.Undo()

	assert.Equal(t, 2, changed, "add and undo mutate; snapshot does not")
	assert.Equal(t, 3, history)
}

func TestUndoSequenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore(nil)
		var snapshots []*Set
		snapshots = append(snapshots, s.Snapshot())

		n := rapid.IntRange(1, 30).Draw(t, "ops")
		for i := 0; i < n; i++ {
			x := rapid.Float64Range(0, 500).Draw(t, "x")
			y := rapid.Float64Range(0, 500).Draw(t, "y")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				s.AddIcon(Icon{Kind: IconTick, Anchor: geometry.Point2D{X: x, Y: y}})
			case 1:
				s.AddText(Text{Content: "t", Anchor: geometry.Point2D{X: x, Y: y}})
			case 2:
				s.AddRect(Rect{Start: geometry.Point2D{X: x, Y: y}, End: geometry.Point2D{X: x + 10, Y: y + 10}})
			case 3:
				s.ClearAll()
			}
			snapshots = append(snapshots, s.Snapshot())
		}

		// Undoing n times walks back through every recorded state.
		for i := n - 1; i >= 0; i-- {
			require.True(t, s.Undo())
			require.Equal(t, snapshots[i], s.Snapshot())
		}
		require.False(t, s.Undo())
	})
}
