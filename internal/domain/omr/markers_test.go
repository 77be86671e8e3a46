package omr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
)

func permutations(pts []entity.Point) [][]entity.Point {
	if len(pts) <= 1 {
		return [][]entity.Point{append([]entity.Point(nil), pts...)}
	}
	var out [][]entity.Point
	for i := range pts {
		rest := make([]entity.Point, 0, len(pts)-1)
		rest = append(rest, pts[:i]...)
		rest = append(rest, pts[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]entity.Point{pts[i]}, p...))
		}
	}
	return out
}

func TestOrderCorners_PermutationInvariant(t *testing.T) {
	want := entity.MarkerSet{
		{X: 100, Y: 120},
		{X: 1050, Y: 90},
		{X: 1100, Y: 1500},
		{X: 80, Y: 1450},
	}
	perms := permutations(want[:])
	require.Len(t, perms, 24)
	for _, p := range perms {
		got, err := OrderCorners(p)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestOrderCorners_ExtraCandidatesIgnored(t *testing.T) {
	pts := []entity.Point{
		{X: 600, Y: 800},
		{X: 80, Y: 80},
		{X: 300, Y: 500},
		{X: 1120, Y: 80},
		{X: 1120, Y: 1520},
		{X: 900, Y: 1000},
		{X: 80, Y: 1520},
	}
	got, err := OrderCorners(pts)
	require.NoError(t, err)
	require.Equal(t, entity.DefaultGeometry().Destination(), got)
}

func TestOrderCorners_TooFew(t *testing.T) {
	_, err := OrderCorners([]entity.Point{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 5}})
	require.ErrorIs(t, err, entity.ErrMarkersNotFound)

	_, err = OrderCorners(nil)
	require.ErrorIs(t, err, entity.ErrMarkersNotFound)
}

func TestCentroid_Square(t *testing.T) {
	square := []image.Point{{60, 60}, {100, 60}, {100, 100}, {60, 100}}
	p, ok := Centroid(square)
	require.True(t, ok)
	require.Equal(t, entity.Point{X: 80, Y: 80}, p)

	reversed := []image.Point{{60, 100}, {100, 100}, {100, 60}, {60, 60}}
	p, ok = Centroid(reversed)
	require.True(t, ok)
	require.Equal(t, entity.Point{X: 80, Y: 80}, p)
}

func TestCentroid_Truncates(t *testing.T) {
	tri := []image.Point{{0, 0}, {10, 0}, {0, 10}}
	p, ok := Centroid(tri)
	require.True(t, ok)
	require.Equal(t, entity.Point{X: 3, Y: 3}, p)
}

func TestCentroid_Degenerate(t *testing.T) {
	_, ok := Centroid([]image.Point{{0, 0}, {5, 5}, {10, 10}})
	require.False(t, ok)

	_, ok = Centroid([]image.Point{{0, 0}, {5, 5}})
	require.False(t, ok)
}

func TestMarkerFilter(t *testing.T) {
	f := DefaultMarkerFilter()
	imageArea := 1200.0 * 1600.0

	require.True(t, f.AcceptArea(1600, imageArea))
	require.False(t, f.AcceptArea(100, imageArea))
	require.False(t, f.AcceptArea(imageArea*0.05, imageArea))

	require.True(t, f.AcceptBox(image.Rect(0, 0, 40, 40)))
	require.False(t, f.AcceptBox(image.Rect(0, 0, 80, 40)))
	require.False(t, f.AcceptBox(image.Rect(0, 0, 40, 0)))
}
