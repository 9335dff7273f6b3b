package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFleet_SizesAndOrder(t *testing.T) {
	f := Fleet()
	require.Equal(t, []ShipSpec{
		{Type: Carrier, Size: 5},
		{Type: Battleship, Size: 4},
		{Type: Cruiser, Size: 3},
		{Type: Submarine, Size: 3},
		{Type: Destroyer, Size: 2},
	}, f)

	total := 0
	for _, s := range f {
		total += s.Size
	}
	require.Equal(t, 17, total)
}

func TestFleet_ReturnsCopy(t *testing.T) {
	f := Fleet()
	f[0].Size = 99
	spec, ok := SpecFor(Carrier)
	require.True(t, ok)
	require.Equal(t, 5, spec.Size)
}

func TestSpecFor_Unknown(t *testing.T) {
	_, ok := SpecFor("Rowboat")
	require.False(t, ok)
	_, ok = SpecFor(NoShip)
	require.False(t, ok)
}

func TestParseCoordinate_Valid(t *testing.T) {
	cases := map[string][2]int{
		"A1":   {0, 0},
		"a1":   {0, 0},
		"J10":  {9, 9},
		" b3 ": {1, 2},
		"E7":   {4, 6},
	}
	for in, want := range cases {
		row, col, err := ParseCoordinate(in)
		require.NoError(t, err, in)
		require.Equal(t, want, [2]int{row, col}, in)
	}
}

func TestParseCoordinate_Invalid(t *testing.T) {
	for _, in := range []string{"", "A", "K1", "A0", "A11", "1A", "Ax", "AA1"} {
		_, _, err := ParseCoordinate(in)
		require.ErrorIs(t, err, ErrInvalidCoordinate, in)
	}
}

func TestFormatCoordinate_RoundTrip(t *testing.T) {
	require.Equal(t, "A1", FormatCoordinate(0, 0))
	require.Equal(t, "J10", FormatCoordinate(9, 9))
	require.Equal(t, "C5", Position{Row: 2, Col: 4}.String())

	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			row, col, err := ParseCoordinate(FormatCoordinate(r, c))
			require.NoError(t, err)
			require.Equal(t, r, row)
			require.Equal(t, c, col)
		}
	}
}

func TestInBounds(t *testing.T) {
	require.True(t, InBounds(0, 0))
	require.True(t, InBounds(9, 9))
	require.False(t, InBounds(-1, 0))
	require.False(t, InBounds(0, 10))
	require.False(t, InBounds(10, 0))
}
