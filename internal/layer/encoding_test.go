package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEncoding() Encoding {
	return Encoding{
		Registers: 2,
		Layers:    1,
		Upload:    [][]int{{0}, {1}},
		Rotation:  [][]int{{0}, {1}},
		Entangle:  [][]int{{2}, {1}},
	}
}

func TestEncoding_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(e *Encoding)
		expectErr string
	}{
		{name: "valid", mutate: func(e *Encoding) {}},
		{
			name:   "zero layers",
			mutate: func(e *Encoding) { e.Layers = 0; e.Upload = [][]int{{}, {}}; e.Rotation = [][]int{{}, {}}; e.Entangle = [][]int{{}, {}} },
		},
		{name: "no registers", mutate: func(e *Encoding) { e.Registers = 0 }, expectErr: "registers must be positive"},
		{name: "negative layers", mutate: func(e *Encoding) { e.Layers = -1 }, expectErr: "must not be negative"},
		{name: "missing row", mutate: func(e *Encoding) { e.Rotation = [][]int{{0}} }, expectErr: "rotation has 1 rows"},
		{name: "short row", mutate: func(e *Encoding) { e.Entangle[1] = []int{} }, expectErr: "entangle row 1 has 0 columns"},
		{name: "layers disagree", mutate: func(e *Encoding) { e.Layers = 2 }, expectErr: "upload row 0 has 1 columns, want 2"},
		{name: "upload code out of range", mutate: func(e *Encoding) { e.Upload[0][0] = 2 }, expectErr: "upload[0][0] = 2"},
		{name: "rotation code negative", mutate: func(e *Encoding) { e.Rotation[1][0] = -1 }, expectErr: "rotation[1][0] = -1"},
		{name: "target zero", mutate: func(e *Encoding) { e.Entangle[0][0] = 0 }, expectErr: "entangle[0][0] = 0"},
		{name: "target past last register", mutate: func(e *Encoding) { e.Entangle[1][0] = 3 }, expectErr: "entangle[1][0] = 3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enc := validEncoding()
			tc.mutate(&enc)
			err := enc.Validate()
			if tc.expectErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrConfigMismatch)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestFromInterleaved(t *testing.T) {
	net := [][]int{
		{0, 1}, {0, 0}, {2, 1},
		{1, 1}, {1, 0}, {1, 1},
	}

	enc, err := FromInterleaved(net, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {1, 1}}, enc.Upload)
	assert.Equal(t, [][]int{{0, 0}, {1, 0}}, enc.Rotation)
	assert.Equal(t, [][]int{{2, 1}, {1, 1}}, enc.Entangle)
	assert.Equal(t, net, enc.Interleaved())
}

func TestFromInterleaved_WrongRowCount(t *testing.T) {
	_, err := FromInterleaved([][]int{{0}, {0}}, 1, 1)
	require.ErrorIs(t, err, ErrConfigMismatch)
	assert.Contains(t, err.Error(), "want 3")
}

func TestFromInterleaved_ValidatesValues(t *testing.T) {
	_, err := FromInterleaved([][]int{{0}, {0}, {5}}, 1, 1)
	require.ErrorIs(t, err, ErrConfigMismatch)
}
