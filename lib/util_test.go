package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesStringRoundTrip(t *testing.T) {
	bz := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	s := BytesToString(bz)
	require.Equal(t, "deadbeef", s)
	got, err := StringToBytes(s)
	require.Nil(t, err)
	require.Equal(t, bz, got)
}

func TestStringToBytesInvalid(t *testing.T) {
	_, err := StringToBytes("not-hex")
	require.NotNil(t, err)
}

func TestHexBytesJSON(t *testing.T) {
	hb := HexBytes{0x01, 0x02, 0x03}
	bz, jErr := hb.MarshalJSON()
	require.NoError(t, jErr)
	require.Equal(t, `"010203"`, string(bz))

	var got HexBytes
	require.NoError(t, got.UnmarshalJSON(bz))
	require.Equal(t, hb, got)
}

func TestSaveAndLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	type obj struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	want := obj{A: 1, B: "x"}
	require.Nil(t, SaveJSONToFile(want, dir, "obj.json"))
	var got obj
	require.Nil(t, NewJSONFromFile(&got, dir, "obj.json"))
	require.Equal(t, want, got)
}

func TestCatchPanic(t *testing.T) {
	l := NewNullLogger()
	func() {
		defer CatchPanic(l)
		panic("boom")
	}()
}

func TestJoinLenPrefix(t *testing.T) {
	a, b := []byte("ab"), []byte("cde")
	joined := JoinLenPrefix(a, b)
	require.Equal(t, []byte{2, 'a', 'b', 3, 'c', 'd', 'e'}, joined)
	require.Equal(t, []byte{2, 'a', 'b'}, JoinLenPrefix(a, nil))
}

