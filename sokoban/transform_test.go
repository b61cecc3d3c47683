package sokoban_test

import (
	"strings"
	"testing"

	"github.com/bertbaron/soko/sokoban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTransforms() []sokoban.Transform {
	var out []sokoban.Transform
	for _, r := range []sokoban.Rotation{sokoban.Rot0, sokoban.Rot90, sokoban.Rot180, sokoban.Rot270} {
		for _, m := range []sokoban.Mirror{sokoban.MirrorNone, sokoban.MirrorHorizontal} {
			out = append(out, sokoban.Transform{Rotation: r, Mirror: m})
		}
	}
	return out
}

// TestTransformXYRoundTrip covers §8's "internal_to_external(external_to_internal(p)) = p".
func TestTransformXYRoundTrip(t *testing.T) {
	const w, h = 5, 3
	for _, tr := range allTransforms() {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				ex, ey := tr.ToExternalXY(w, h, x, y)
				gx, gy := tr.ToInternalXY(w, h, ex, ey)
				require.Equalf(t, x, gx, "rot=%v mirror=%v x=%d y=%d", tr.Rotation, tr.Mirror, x, y)
				require.Equalf(t, y, gy, "rot=%v mirror=%v x=%d y=%d", tr.Rotation, tr.Mirror, x, y)
			}
		}
	}
}

// TestDirectionTableMatchesSpec pins the exact §6 table values.
func TestDirectionTableMatchesSpec(t *testing.T) {
	cases := []struct {
		tr   sokoban.Transform
		want [4]sokoban.Direction
	}{
		{sokoban.Transform{Rotation: sokoban.Rot0, Mirror: sokoban.MirrorNone}, [4]sokoban.Direction{sokoban.Up, sokoban.Down, sokoban.Left, sokoban.Right}},
		{sokoban.Transform{Rotation: sokoban.Rot0, Mirror: sokoban.MirrorHorizontal}, [4]sokoban.Direction{sokoban.Up, sokoban.Down, sokoban.Right, sokoban.Left}},
		{sokoban.Transform{Rotation: sokoban.Rot90, Mirror: sokoban.MirrorNone}, [4]sokoban.Direction{sokoban.Right, sokoban.Left, sokoban.Up, sokoban.Down}},
		{sokoban.Transform{Rotation: sokoban.Rot90, Mirror: sokoban.MirrorHorizontal}, [4]sokoban.Direction{sokoban.Left, sokoban.Right, sokoban.Up, sokoban.Down}},
		{sokoban.Transform{Rotation: sokoban.Rot180, Mirror: sokoban.MirrorNone}, [4]sokoban.Direction{sokoban.Down, sokoban.Up, sokoban.Right, sokoban.Left}},
		{sokoban.Transform{Rotation: sokoban.Rot180, Mirror: sokoban.MirrorHorizontal}, [4]sokoban.Direction{sokoban.Down, sokoban.Up, sokoban.Left, sokoban.Right}},
		{sokoban.Transform{Rotation: sokoban.Rot270, Mirror: sokoban.MirrorNone}, [4]sokoban.Direction{sokoban.Left, sokoban.Right, sokoban.Down, sokoban.Up}},
		{sokoban.Transform{Rotation: sokoban.Rot270, Mirror: sokoban.MirrorHorizontal}, [4]sokoban.Direction{sokoban.Right, sokoban.Left, sokoban.Down, sokoban.Up}},
	}
	in := [4]sokoban.Direction{sokoban.Up, sokoban.Down, sokoban.Left, sokoban.Right}
	for _, c := range cases {
		for i, d := range in {
			assert.Equalf(t, c.want[i], c.tr.ToExternal(d), "rot=%v mirror=%v dir=%v", c.tr.Rotation, c.tr.Mirror, d)
		}
	}
}

// TestDirectionTableInverse checks ToInternal undoes ToExternal for
// every transform and direction.
func TestDirectionTableInverse(t *testing.T) {
	for _, tr := range allTransforms() {
		for _, d := range []sokoban.Direction{sokoban.Up, sokoban.Down, sokoban.Left, sokoban.Right} {
			assert.Equal(t, d, tr.ToInternal(tr.ToExternal(d)))
		}
	}
}

// TestLURDRoundTrip covers §8's LURD round-trip property. The codec
// skips whitespace, so "uu dd" comes back as "uudd".
func TestLURDRoundTrip(t *testing.T) {
	for _, tr := range allTransforms() {
		for _, lurd := range []string{"", "u", "U", "uldrUDLR", "uu dd"} {
			ext := tr.LURDToExternal(lurd)
			back := tr.LURDToInternal(ext)
			assert.Equal(t, strings.ReplaceAll(lurd, " ", ""), back, "transform=%+v lurd=%q", tr, lurd)
		}
	}
}

// TestLURDLenientTermination checks the first invalid character stops
// translation and returns the partial result, per §4.9/§6.
func TestLURDLenientTermination(t *testing.T) {
	tr := sokoban.Identity()
	assert.Equal(t, "ud", tr.LURDToExternal("udX rl"))
}

// TestExternalDimsSwapOnQuarterTurn checks width/height swap for 90/270.
func TestExternalDimsSwapOnQuarterTurn(t *testing.T) {
	tr := sokoban.Transform{Rotation: sokoban.Rot90}
	ew, eh := tr.ExternalDims(5, 3)
	assert.Equal(t, 3, ew)
	assert.Equal(t, 5, eh)
}
